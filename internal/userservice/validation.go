package userservice

import (
	"fmt"

	"github.com/sushihentaime/bloglist/internal/common"
)

// bcrypt only accepts passwords up to this many bytes.
const maxPasswordBytes = 72

func validateCreateUser(v *common.Validator, req *CreateUserRequest) {
	v.CheckStruct(req)
	v.Check(v.CheckStringLength(req.Password, 0, maxPasswordBytes), "password", fmt.Sprintf("password must not exceed %d bytes", maxPasswordBytes))
}

func validateCredentials(v *common.Validator, username, password string) {
	v.Check(username != "", "username", "missing username")
	v.Check(password != "", "password", "missing password")
}
