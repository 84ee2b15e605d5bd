package http

import (
	"context"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
	"github.com/haulmatch/taxadmin/internal/admin/rpc"
	"github.com/haulmatch/taxadmin/internal/admin/service"
	"github.com/haulmatch/taxadmin/pkg/httpx"
)

type LogoutResponse struct {
	Success bool `json:"success"`
}

func (r *Router) registerAuth() {
	r.rpc.Register(
		rpc.Mutation("auth.login", httpx.TierPublic, r.login),
		rpc.Mutation("auth.logout", httpx.TierPublic, r.logout),
		rpc.Query("auth.me", httpx.TierPublic, r.me),
	)
}

// login godoc
//
//	@Summary		Log in
//	@Description	Verifies the credentials of an administrator and sets the auth-token session cookie.
//	@Description	Unknown emails and wrong passwords fail with the same UNAUTHORIZED error.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			input	body		service.LoginInput	true	"Credentials; otp is required when the account has TOTP enabled"
//	@Success		200		{object}	domain.Identity		"result.data"
//	@Failure		400		{object}	map[string]any		"BAD_REQUEST"
//	@Failure		401		{object}	map[string]any		"UNAUTHORIZED"
//	@Failure		403		{object}	map[string]any		"FORBIDDEN"
//	@Failure		412		{object}	map[string]any		"PRECONDITION_FAILED"
//	@Failure		429		{object}	map[string]any		"TOO_MANY_REQUESTS"
//	@Header			200		{string}	Set-Cookie			"auth-token; HttpOnly; SameSite=Lax; Max-Age=86400"
//	@Router			/api/rpc/auth.login [post].
func (r *Router) login(ctx context.Context, call *rpc.Call, in service.LoginInput) (domain.Identity, error) {
	res, err := r.AuthService.Login(ctx, in)
	if err != nil {
		return domain.Identity{}, err
	}

	httpx.SetSessionCookie(call.Writer, res.Token, res.TTL, r.SecureCookies)
	return res.Identity, nil
}

// logout godoc
//
//	@Summary		Log out
//	@Description	Clears the session cookie. Always succeeds.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	LogoutResponse	"result.data"
//	@Router			/api/rpc/auth.logout [post].
func (r *Router) logout(_ context.Context, call *rpc.Call, _ rpc.NoInput) (LogoutResponse, error) {
	httpx.ClearSessionCookie(call.Writer, r.SecureCookies)
	return LogoutResponse{Success: true}, nil
}

// me godoc
//
//	@Summary		Current identity
//	@Description	Returns the caller's identity with roles re-read from the database, or null when anonymous.
//	@Tags			Auth
//	@Produce		json
//	@Security		SessionCookie
//	@Success		200	{object}	domain.Identity	"result.data, null when anonymous"
//	@Router			/api/rpc/auth.me [get].
func (r *Router) me(ctx context.Context, _ *rpc.Call, _ rpc.NoInput) (*domain.Identity, error) {
	return r.AuthService.Me(ctx)
}
