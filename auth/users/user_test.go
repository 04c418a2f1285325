package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		rollNumber string
		userType   UserType
		want       User
	}{
		{
			name:       "student",
			rollNumber: "21K61A0501",
			userType:   Student,
			want: User{
				Name:       "Student 21K61A0501",
				RollNumber: "21K61A0501",
				Email:      "21k61a0501@kmit.edu.in",
				Type:       Student,
			},
		},
		{
			name:       "faculty with spaces and lower case",
			rollNumber: "  emp042 ",
			userType:   Faculty,
			want: User{
				Name:       "Faculty EMP042",
				RollNumber: "EMP042",
				Email:      "emp042@kmit.edu.in",
				Type:       Faculty,
			},
		},
		{
			name:       "admin",
			rollNumber: "root",
			userType:   Admin,
			want: User{
				Name:       "Admin ROOT",
				RollNumber: "ROOT",
				Email:      "root@kmit.edu.in",
				Type:       Admin,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, New(tt.rollNumber, tt.userType))
		})
	}
}

func TestParseUserType(t *testing.T) {
	tests := []struct {
		in      string
		want    UserType
		wantErr bool
	}{
		{in: "student", want: Student},
		{in: " Faculty ", want: Faculty},
		{in: "ADMIN", want: Admin},
		{in: "", wantErr: true},
		{in: "guest", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseUserType(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownUserType, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestUser_Role(t *testing.T) {
	assert.Equal(t, RoleGuest, User{}.Role())
	assert.Equal(t, "faculty", New("e1", Faculty).Role())
}
