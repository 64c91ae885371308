package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	comatproto "github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/xrpc"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/Baskerbio/Baskermain-sub000/appview/config"
	"github.com/Baskerbio/Baskermain-sub000/appview/db"
	"github.com/Baskerbio/Baskermain-sub000/appview/models"
	"github.com/Baskerbio/Baskermain-sub000/idresolver"
)

const (
	SessionName          = "basker-session"
	SessionId            = "id"
	SessionDid           = "did"
	SessionAuthenticated = "authenticated"
)

// access tokens issued by PDS instances are short-lived; refresh
// past this horizon
const accessTokenTTL = time.Hour * 2

// Auth owns app-password sessions. The cookie carries only an opaque
// session id; the JWTs live in the database and are refreshed against
// the user's PDS when they lapse.
type Auth struct {
	store      *sessions.CookieStore
	db         *db.DB
	idResolver *idresolver.Resolver
	logger     *slog.Logger
}

func New(cfg *config.Config, d *db.DB, res *idresolver.Resolver, logger *slog.Logger) *Auth {
	return &Auth{
		store:      sessions.NewCookieStore([]byte(cfg.Core.CookieSecret)),
		db:         d,
		idResolver: res,
		logger:     logger,
	}
}

// Login resolves the identifier to its PDS and creates a session
// there with the supplied app password.
func (a *Auth) Login(ctx context.Context, identifier, password string) (*models.Session, error) {
	// handles copied from bsky.app tend to carry directional marks
	// and a leading @
	identifier = strings.TrimPrefix(identifier, "‪")
	identifier = strings.TrimSuffix(identifier, "‬")
	identifier = strings.TrimPrefix(identifier, "@")

	ident, err := a.idResolver.ResolveIdent(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity %q: %w", identifier, err)
	}

	pdsUrl := ident.PDSEndpoint()
	if pdsUrl == "" {
		return nil, fmt.Errorf("no PDS endpoint for %q", identifier)
	}

	client := &xrpc.Client{Host: pdsUrl}
	out, err := comatproto.ServerCreateSession(ctx, client, &comatproto.ServerCreateSession_Input{
		Identifier: ident.DID.String(),
		Password:   password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess := models.Session{
		ID:         uuid.NewString(),
		Did:        out.Did,
		Handle:     out.Handle,
		PdsUrl:     pdsUrl,
		AccessJwt:  out.AccessJwt,
		RefreshJwt: out.RefreshJwt,
		Expiry:     time.Now().Add(accessTokenTTL),
		Created:    time.Now(),
	}

	if err := db.PutSession(a.db, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &sess, nil
}

func (a *Auth) SaveSession(w http.ResponseWriter, r *http.Request, sess *models.Session) error {
	userSession, err := a.store.Get(r, SessionName)
	if err != nil {
		return err
	}

	userSession.Values[SessionId] = sess.ID
	userSession.Values[SessionDid] = sess.Did
	userSession.Values[SessionAuthenticated] = true
	return userSession.Save(r, w)
}

// ResumeSession loads the session referenced by the cookie,
// refreshing its tokens against the PDS when the access token has
// lapsed.
func (a *Auth) ResumeSession(r *http.Request) (*models.Session, error) {
	userSession, err := a.store.Get(r, SessionName)
	if err != nil {
		return nil, fmt.Errorf("error getting user session: %w", err)
	}
	if userSession.IsNew {
		return nil, fmt.Errorf("no session available for user")
	}

	id, ok := userSession.Values[SessionId].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("malformed session cookie")
	}

	sess, err := db.GetSession(a.db, db.FilterEq("id", id))
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if sess.Expired() {
		if err := a.refresh(r.Context(), sess); err != nil {
			return nil, fmt.Errorf("failed to refresh session: %w", err)
		}
	}

	return sess, nil
}

func (a *Auth) refresh(ctx context.Context, sess *models.Session) error {
	client := &xrpc.Client{
		Host: sess.PdsUrl,
		Auth: &xrpc.AuthInfo{
			AccessJwt: sess.RefreshJwt,
			Did:       sess.Did,
			Handle:    sess.Handle,
		},
	}

	out, err := comatproto.ServerRefreshSession(ctx, client)
	if err != nil {
		return err
	}

	sess.AccessJwt = out.AccessJwt
	sess.RefreshJwt = out.RefreshJwt
	sess.Expiry = time.Now().Add(accessTokenTTL)

	return db.PutSession(a.db, *sess)
}

// DeleteSession revokes the PDS session and clears both the cookie
// and the stored row.
func (a *Auth) DeleteSession(w http.ResponseWriter, r *http.Request) error {
	userSession, err := a.store.Get(r, SessionName)
	if err != nil {
		return fmt.Errorf("error getting user session: %w", err)
	}
	if userSession.IsNew {
		return fmt.Errorf("no session available for user")
	}

	if id, ok := userSession.Values[SessionId].(string); ok && id != "" {
		if sess, err := db.GetSession(a.db, db.FilterEq("id", id)); err == nil {
			client := &xrpc.Client{
				Host: sess.PdsUrl,
				Auth: &xrpc.AuthInfo{
					AccessJwt: sess.RefreshJwt,
					Did:       sess.Did,
					Handle:    sess.Handle,
				},
			}
			if err := comatproto.ServerDeleteSession(r.Context(), client); err != nil {
				a.logger.Error("failed to revoke PDS session", "err", err)
			}
		}

		if err := db.DeleteSession(a.db, db.FilterEq("id", id)); err != nil {
			a.logger.Error("failed to delete session row", "err", err)
		}
	}

	userSession.Options.MaxAge = -1
	return a.store.Save(r, w, userSession)
}

type User struct {
	Did    string
	Handle string
	Pds    string
}

func (a *Auth) GetUser(r *http.Request) *User {
	sess, err := a.ResumeSession(r)
	if err != nil {
		return nil
	}

	return &User{
		Did:    sess.Did,
		Handle: sess.Handle,
		Pds:    sess.PdsUrl,
	}
}

func (a *Auth) GetDid(r *http.Request) string {
	if u := a.GetUser(r); u != nil {
		return u.Did
	}

	return ""
}

// AuthorizedClient builds an xrpc client against the session's own
// PDS, carrying its access token.
func (a *Auth) AuthorizedClient(r *http.Request) (*xrpc.Client, error) {
	sess, err := a.ResumeSession(r)
	if err != nil {
		return nil, fmt.Errorf("error getting session: %w", err)
	}

	return &xrpc.Client{
		Host: sess.PdsUrl,
		Auth: &xrpc.AuthInfo{
			AccessJwt:  sess.AccessJwt,
			RefreshJwt: sess.RefreshJwt,
			Did:        sess.Did,
			Handle:     sess.Handle,
		},
		Client: &http.Client{
			Timeout: time.Second * 10,
		},
	}, nil
}
