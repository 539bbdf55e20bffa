// Package credentials persists the session material the client must survive
// a restart with: the access token, the refresh token, and the cached user
// profile.
package credentials

import (
	"context"

	"github.com/dmitrijs2005/jobtrack/internal/client/models"
)

// Store is the durable credential store.
//
// Contract:
//   - SetTokens writes both tokens in one transaction; a reader never sees
//     one token updated without the other.
//   - AccessToken / RefreshToken return "" when no value is stored.
//   - User returns nil when no profile is stored or the stored bytes do not
//     parse; a corrupt profile is indistinguishable from an absent one.
//   - Clear removes all three slots in one transaction.
type Store interface {
	SetTokens(ctx context.Context, access, refresh string) error
	SetAccessToken(ctx context.Context, access string) error
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetUser(ctx context.Context, u *models.User) error
	User(ctx context.Context) (*models.User, error)
	Clear(ctx context.Context) error
}
