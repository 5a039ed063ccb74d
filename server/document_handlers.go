package server

import (
	"net/http"
	"time"

	"github.com/flyodesk/agency-console/coreapi"
	apperrors "github.com/flyodesk/agency-console/internal/errors"
	"github.com/flyodesk/agency-console/roster"
)

// UploadPassportHandler accepts a passport scan plus its metadata as
// multipart form data and forwards it to the core API after local checks.
func (s *Server) UploadPassportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		passengerID, err := pathID(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}

		if err := r.ParseMultipartForm(coreapi.MaxPassportSize); err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "invalid multipart form: %v", err))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "missing file field"))
			return
		}
		defer file.Close()

		if err := coreapi.ValidateUpload(header.Filename, header.Size, coreapi.MaxPassportSize); err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "%v", err))
			return
		}

		doc := coreapi.PassportDoc{
			PassengerID:    passengerID,
			DocumentNumber: r.FormValue("documentNumber"),
			Nationality:    r.FormValue("nationality"),
			ExpiryDate:     r.FormValue("expiryDate"),
			FileName:       header.Filename,
		}
		if fieldErrors := roster.ValidatePassport(doc, time.Now()); len(fieldErrors) > 0 {
			respondFieldErrors(w, fieldErrors)
			return
		}

		stored, err := s.core.UploadPassport(r.Context(), session.AgentToken, passengerID, doc, header.Filename, file)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, stored)
	}
}

func (s *Server) DeletePassportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		passengerID, err := pathID(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}
		docID, err := pathID(r, "docId")
		if err != nil {
			respondError(w, err)
			return
		}

		if err := s.core.DeletePassport(r.Context(), session.AgentToken, passengerID, docID); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]int64{"deleted": docID})
	}
}

// UploadTicketHandler sends a ticket file to the backend parser and returns
// the normalized parse result, whichever response shape the backend used.
func (s *Server) UploadTicketHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		if err := r.ParseMultipartForm(coreapi.MaxTicketSize); err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "invalid multipart form: %v", err))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "missing file field"))
			return
		}
		defer file.Close()

		if err := coreapi.ValidateUpload(header.Filename, header.Size, coreapi.MaxTicketSize); err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "%v", err))
			return
		}

		parsed, err := s.core.UploadTicket(r.Context(), session.AgentToken, header.Filename, file)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, parsed)
	}
}
