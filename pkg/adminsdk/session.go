package adminsdk

import (
	"context"
	"net/http"
)

// Session is a logged-in administrator. Its HTTP client carries the
// auth-token cookie set by auth.login.
type Session struct {
	client   *SDKClient
	http     *http.Client
	identity Identity
}

// Identity is the identity returned by auth.login.
func (s *Session) Identity() Identity {
	return s.identity
}

// Me calls auth.me. It returns nil, nil once the session is no longer valid.
func (s *Session) Me(ctx context.Context) (*Identity, error) {
	var identity *Identity
	if err := s.client.query(ctx, s.http, "auth.me", nil, &identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Logout calls auth.logout, which clears the cookie from the session's jar.
func (s *Session) Logout(ctx context.Context) error {
	var out struct {
		Success bool `json:"success"`
	}
	return s.client.mutate(ctx, s.http, "auth.logout", nil, &out)
}

func (s *Session) GetCategories(ctx context.Context) ([]Category, error) {
	return getCategories(ctx, s.client, s.http)
}

func (s *Session) GetFormFields(ctx context.Context, categorySlug, fieldType string) ([]FormField, error) {
	return getFormFields(ctx, s.client, s.http, categorySlug, fieldType)
}

func (s *Session) GetFormValue(ctx context.Context, id int64) (*FormValue, error) {
	return getFormValue(ctx, s.client, s.http, id)
}

// UpdateFormValue applies a partial update. Omitted members are unchanged;
// a nil value clears groupEn, groupEs, rank or inCategorySlugs.
func (s *Session) UpdateFormValue(ctx context.Context, id int64, fields map[string]any) (*FormValue, error) {
	return updateFormValue(ctx, s.client, s.http, id, fields)
}

// GetMetrics fetches the Prometheus exposition text. Requires the admin role.
func (s *Session) GetMetrics(ctx context.Context) (string, error) {
	resp, err := s.client.doRequest(ctx, s.http, http.MethodGet, "/metrics", nil, nil)
	if err != nil {
		return "", err
	}
	return readText(resp)
}
