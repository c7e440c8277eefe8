package auth

import (
	"context"

	"lendpool/core"

	"github.com/asaskevich/govalidator"
)

type admins struct {
	ids []string
}

// New admins allowed to run privileged operations
func New(ids []string) core.Authorizer {
	return &admins{ids: ids}
}

func (a *admins) IsAdmin(_ context.Context, user string) bool {
	return user != "" && govalidator.IsIn(user, a.ids...)
}
