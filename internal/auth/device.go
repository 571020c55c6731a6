package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrijs2005/imgdrop/internal/common"
	"github.com/dmitrijs2005/imgdrop/internal/dbx"
	"github.com/dmitrijs2005/imgdrop/internal/logging"
	"github.com/dmitrijs2005/imgdrop/internal/repositories/metadata"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Metadata keys holding the persisted session.
const (
	keySessionEmail = "session_email"
	keySessionToken = "session_token"
)

// DeviceOptions configures the OAuth client. Empty URLs use Google's
// endpoints.
type DeviceOptions struct {
	ClientID      string
	ClientSecret  string
	Scopes        []string
	DeviceAuthURL string
	TokenURL      string
}

// DeviceAuth signs in with the OAuth 2.0 device authorization grant
// (RFC 8628): it prints a verification URL and a user code, then polls the
// token endpoint until the user approves.
type DeviceAuth struct {
	cfg    *oauth2.Config
	db     *sql.DB
	out    io.Writer
	logger logging.Logger
}

func NewDeviceAuth(opts DeviceOptions, db *sql.DB, out io.Writer, logger logging.Logger) *DeviceAuth {
	endpoint := google.Endpoint
	if opts.DeviceAuthURL != "" {
		endpoint.DeviceAuthURL = opts.DeviceAuthURL
	}
	if opts.TokenURL != "" {
		endpoint.TokenURL = opts.TokenURL
	}
	if logger == nil {
		logger = logging.NewSlogLogger(slog.New(slog.DiscardHandler))
	}
	return &DeviceAuth{
		cfg: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Scopes:       opts.Scopes,
			Endpoint:     endpoint,
		},
		db:     db,
		out:    out,
		logger: logger,
	}
}

func (a *DeviceAuth) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// SignIn runs the device flow to completion and persists the session.
func (a *DeviceAuth) SignIn(ctx context.Context) (*Session, error) {
	da, err := a.cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device authorization: %w", err)
	}

	uri := da.VerificationURIComplete
	if uri == "" {
		uri = da.VerificationURI
	}
	fmt.Fprintf(a.out, "To sign in, open %s and enter code %s\n", uri, da.UserCode)

	tok, err := a.cfg.DeviceAccessToken(ctx, da)
	if err != nil {
		return nil, fmt.Errorf("device token: %w", err)
	}

	s := &Session{Email: EmailFromToken(tok), Token: tok}
	if err := a.save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	a.logger.Info(ctx, "signed in", "email", s.Email)
	return s, nil
}

// Current loads the stored session. An expired token is refreshed when a
// refresh token is available; otherwise common.ErrTokenExpired is returned.
func (a *DeviceAuth) Current(ctx context.Context) (*Session, error) {
	repo := a.getMetadataRepo(a.db)

	rawTok, err := repo.Get(ctx, keySessionToken)
	if err != nil {
		return nil, err
	}
	if rawTok == nil {
		return nil, nil
	}
	email, err := repo.Get(ctx, keySessionEmail)
	if err != nil {
		return nil, err
	}

	tok := &oauth2.Token{}
	if err := json.Unmarshal(rawTok, tok); err != nil {
		return nil, fmt.Errorf("decode session token: %w", err)
	}

	s := &Session{Email: string(email), Token: tok}
	if s.Valid() {
		return s, nil
	}
	if tok.RefreshToken == "" {
		return nil, common.ErrTokenExpired
	}

	fresh, err := a.cfg.TokenSource(ctx, tok).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
	}
	s.Token = fresh
	if err := a.save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	a.logger.Debug(ctx, "session refreshed", "email", s.Email)
	return s, nil
}

// SignOut forgets the stored session.
func (a *DeviceAuth) SignOut(ctx context.Context) error {
	return a.getMetadataRepo(a.db).Delete(ctx, keySessionEmail, keySessionToken)
}

func (a *DeviceAuth) save(ctx context.Context, s *Session) error {
	rawTok, err := json.Marshal(s.Token)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getMetadataRepo(tx)
		if err := repo.Set(ctx, keySessionEmail, []byte(s.Email)); err != nil {
			return err
		}
		return repo.Set(ctx, keySessionToken, rawTok)
	})
}

// EmailFromToken reads the email claim of the OpenID id_token carried in
// tok. The signature is not verified; the value is for display only.
func EmailFromToken(tok *oauth2.Token) string {
	if tok == nil {
		return ""
	}
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}
