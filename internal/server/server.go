package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"lexdesk/internal/storage"
	"lexdesk/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config

	users     UserStore
	clients   ClientStore
	cases     CaseStore
	documents DocumentStore
	hearings  HearingStore

	objects  storage.ObjectStore
	purger   Purger
	notifier Notifier

	cookie *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	users UserStore,
	clients ClientStore,
	cases CaseStore,
	documents DocumentStore,
	hearings HearingStore,
	objects storage.ObjectStore,
	purger Purger,
	notifier Notifier,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger: logger,
		config: config,
		cookie: securecookie.New(hashKey, blockKey),

		users:     users,
		clients:   clients,
		cases:     cases,
		documents: documents,
		hearings:  hearings,

		objects:  objects,
		purger:   purger,
		notifier: notifier,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/api/auth/register", s.handleRegister, http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin, http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.handleLogout, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireSession)

		r.HandleFunc("/api/profile", s.handleGetProfile, http.MethodGet)
		r.HandleFunc("/api/profile", s.handleUpdateProfile, http.MethodPut)
		r.HandleFunc("/api/profile/image", s.handleUploadProfileImage, http.MethodPost)

		// Advocate-side management surface
		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleAdvocate, types.RoleAdmin, types.RoleTeamMember))

			r.HandleFunc("/api/cases", s.handleListCases, http.MethodGet)
			r.HandleFunc("/api/cases", s.handleCreateCase, http.MethodPost)
			r.HandleFunc("/api/cases/:caseID", s.handleGetCase, http.MethodGet)
			r.HandleFunc("/api/cases/:caseID", s.handleUpdateCase, http.MethodPut)
			r.HandleFunc("/api/cases/:caseID", s.handleDeleteCase, http.MethodDelete)
			r.HandleFunc("/api/cases/:caseID/notes", s.handleAddCaseNote, http.MethodPost)
			r.HandleFunc("/api/cases/:caseID/tasks", s.handleAddCaseTask, http.MethodPost)
			r.HandleFunc("/api/cases/:caseID/documents", s.handleListDocuments, http.MethodGet)

			r.HandleFunc("/api/clients", s.handleListClients, http.MethodGet)
			r.HandleFunc("/api/clients", s.handleCreateClient, http.MethodPost)
			r.HandleFunc("/api/clients/:clientID", s.handleGetClient, http.MethodGet)
			r.HandleFunc("/api/clients/:clientID", s.handleUpdateClient, http.MethodPut)
			r.HandleFunc("/api/clients/:clientID", s.handleDeleteClient, http.MethodDelete)

			r.HandleFunc("/api/documents/upload", s.handleUploadDocument, http.MethodPost)
			r.HandleFunc("/api/documents/:documentID", s.handleDeleteDocument, http.MethodDelete)
			r.HandleFunc("/api/documents/:documentID/download", s.handleDownloadDocument, http.MethodGet)

			r.HandleFunc("/api/hearings", s.handleListHearings, http.MethodGet)
			r.HandleFunc("/api/hearings", s.handleCreateHearing, http.MethodPost)
			r.HandleFunc("/api/hearings/:hearingID", s.handleGetHearing, http.MethodGet)
			r.HandleFunc("/api/hearings/:hearingID", s.handleUpdateHearing, http.MethodPut)
			r.HandleFunc("/api/hearings/:hearingID", s.handleDeleteHearing, http.MethodDelete)

			r.HandleFunc("/api/team", s.handleListTeam, http.MethodGet)
			r.HandleFunc("/api/team", s.handleCreateTeamMember, http.MethodPost)

			r.HandleFunc("/api/backup/export", s.handleBackupExport, http.MethodGet)
			r.HandleFunc("/api/backup/import", s.handleBackupImport, http.MethodPost)
		})

		// Restricted client portal
		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleClient))

			r.HandleFunc("/api/portal/cases", s.handlePortalListCases, http.MethodGet)
			r.HandleFunc("/api/portal/cases/:caseID", s.handlePortalGetCase, http.MethodGet)
			r.HandleFunc("/api/portal/cases/:caseID/documents", s.handlePortalListDocuments, http.MethodGet)
		})
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
