// Package hosts stores booking-provider host accounts. Access tokens are
// encrypted at rest with AES-256-GCM.
package hosts

import (
	"context"
	"time"

	"github.com/example/sweepalert/internal/crypto"
	"github.com/example/sweepalert/internal/db"
)

type Account struct {
	HostUID     string
	AccessToken string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Repo struct {
	db  *db.DB
	enc *crypto.AEAD
}

func NewRepo(d *db.DB, encKey []byte) (*Repo, error) {
	enc, err := crypto.New(encKey)
	if err != nil {
		return nil, err
	}
	return &Repo{db: d, enc: enc}, nil
}

// SetToken inserts or replaces the stored access token for a host.
func (r *Repo) SetToken(ctx context.Context, hostUID, accessToken string) error {
	ct, err := r.enc.EncryptToString(accessToken)
	if err != nil {
		return err
	}
	return r.db.Exec(ctx, `
INSERT INTO host_accounts(host_uid, access_token_enc)
VALUES ($1,$2)
ON CONFLICT (host_uid) DO UPDATE SET access_token_enc=EXCLUDED.access_token_enc, updated_at=now()`,
		hostUID, ct)
}

// Token returns the decrypted access token for a host. db.ErrNotFound when
// no account row exists.
func (r *Repo) Token(ctx context.Context, hostUID string) (string, error) {
	var ct string
	err := r.db.QueryRow(ctx, `SELECT access_token_enc FROM host_accounts WHERE host_uid=$1`, hostUID).Scan(&ct)
	if err != nil {
		return "", db.WrapNotFound(err)
	}
	return r.enc.DecryptString(ct)
}

// List returns all host accounts without decrypting tokens.
func (r *Repo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT host_uid, created_at, updated_at FROM host_accounts ORDER BY host_uid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.HostUID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
