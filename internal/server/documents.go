package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lexdesk/internal/storage"
	"lexdesk/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/sirupsen/logrus"
)

// multipart overhead allowance on top of the document size ceiling
const uploadBodySlack = 1 << 20

type documentResponse struct {
	*types.CaseDocument
	URL string `json:"url,omitempty"`
}

func (s *Service) documentResponses(ctx context.Context, docs []*types.CaseDocument) []documentResponse {
	out := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		url, err := s.objects.SignedReadURL(ctx, doc.StorageKey, storage.SignedURLTTL)
		if err != nil {
			s.logger.WithError(err).WithField("storage_key", doc.StorageKey).Warn("failed to sign document url")
		}
		out = append(out, documentResponse{CaseDocument: doc, URL: url})
	}
	return out
}

func (s *Service) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	c, err := s.cases.Case(ctx, tenantID, flow.Param(ctx, "caseID"))
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	docs, err := s.documents.DocumentsByCase(ctx, tenantID, c.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list case documents")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, s.documentResponses(ctx, docs))
}

// handleUploadDocument accepts a multipart upload bound to a case. The
// size ceiling is enforced before any remote write; a remote write
// failure fails the whole request so metadata is never recorded for an
// object that does not exist.
func (s *Service) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, types.MaxCaseDocumentBytes+uploadBodySlack)

	if err := r.ParseMultipartForm(types.MaxCaseDocumentBytes + uploadBodySlack); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.respondError(w, http.StatusBadRequest, "file exceeds the 10MB limit")
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	caseID := r.FormValue("caseId")
	if caseID == "" {
		s.respondError(w, http.StatusBadRequest, "missing required field: caseId")
		return
	}

	c, err := s.cases.Case(ctx, tenantID, caseID)
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing required field: file")
		return
	}
	defer file.Close()

	if header.Size > types.MaxCaseDocumentBytes {
		s.respondError(w, http.StatusBadRequest, "file exceeds the 10MB limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body, err := io.ReadAll(file)
	if err != nil {
		s.logger.WithError(err).Error("failed to read uploaded file")
		s.internalServerError(w)
		return
	}

	storageKey := storage.DocumentKey(c.ID, header.Filename, time.Now())

	if err := s.objects.Save(ctx, storageKey, body, contentType); err != nil {
		s.logger.WithError(err).WithField("storage_key", storageKey).Error("failed to write object to storage")
		s.respondError(w, http.StatusBadGateway, "file storage unavailable")
		return
	}

	doc := &types.CaseDocument{
		CaseID:        c.ID,
		AdvocateID:    tenantID,
		FileName:      header.Filename,
		FileSizeBytes: header.Size,
		MimeType:      contentType,
		StorageKey:    storageKey,
		UploadedBy:    principal.ID,
		UploadedAt:    time.Now(),
	}

	if err := s.documents.CreateDocument(ctx, doc); err != nil {
		// The object is now orphaned; the periodic sweep reclaims it.
		s.logger.WithError(err).WithField("storage_key", storageKey).Error("failed to record document metadata")
		s.internalServerError(w)
		return
	}

	if client, err := s.clients.Client(ctx, tenantID, c.ClientID); err == nil {
		s.notifier.DocumentUploaded(client.Email, c.CaseNumber, doc.FileName)
	}

	url, err := s.objects.SignedReadURL(ctx, storageKey, storage.SignedURLTTL)
	if err != nil {
		s.logger.WithError(err).Warn("failed to sign url for fresh upload")
	}

	s.logger.WithFields(logrus.Fields{
		"document_id": doc.ID,
		"case_id":     c.ID,
		"size_bytes":  doc.FileSizeBytes,
	}).Info("document uploaded")

	s.respondJSON(w, http.StatusCreated, documentResponse{CaseDocument: doc, URL: url})
}

func (s *Service) handleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	doc, err := s.documents.Document(ctx, tenantID, flow.Param(ctx, "documentID"))
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	body, contentType, err := s.objects.Get(ctx, doc.StorageKey)
	if err != nil {
		s.logger.WithError(err).WithField("storage_key", doc.StorageKey).Error("failed to fetch object for download")
		s.respondError(w, http.StatusBadGateway, "file storage unavailable")
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = doc.MimeType
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))

	if _, err := io.Copy(w, body); err != nil {
		s.logger.WithError(err).Warn("document download interrupted")
	}
}

func (s *Service) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	doc, err := s.documents.Document(ctx, tenantID, flow.Param(ctx, "documentID"))
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	// Remote delete is best effort; the metadata row goes regardless
	// and the sweep reclaims any remnant.
	if err := s.objects.Delete(ctx, doc.StorageKey); err != nil {
		s.logger.WithError(err).WithField("storage_key", doc.StorageKey).Warn("failed to delete remote object")
	}

	if err := s.documents.DeleteDocument(ctx, tenantID, doc.ID); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
