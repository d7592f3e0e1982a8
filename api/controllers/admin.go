package controllers

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/multierr"

	"github.com/angelmondragon/hearth-storefront/api/middleware"
	"github.com/angelmondragon/hearth-storefront/api/responses"
	"github.com/angelmondragon/hearth-storefront/internal/admin"
	"github.com/angelmondragon/hearth-storefront/pkg/backend"
	"github.com/angelmondragon/hearth-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
)

const (
	uploadIDHeader   = "X-Upload-Id"
	maxUploadMemory  = 32 << 20
	fieldFrontView   = "frontViewPicture"
	fieldPictures    = "pictures"
	fieldKeepFront   = "existingFrontView"
	fieldKeepPicture = "existingPictures"
)

// AdminService manages rooms and the gallery on the hotel API.
type AdminService interface {
	ListRooms(ctx context.Context) ([]types.Room, error)
	SaveRoom(ctx context.Context, token, id, uploadID string, in admin.RoomInput) (*admin.Result, error)
	DeleteRoom(ctx context.Context, token, id string) (*admin.Result, error)
	SaveGallery(ctx context.Context, token, id, uploadID string, in admin.GalleryInput) (*admin.Result, error)
	CancelUpload(uploadID string) error
}

func adminToken(r *http.Request) string {
	state, _ := middleware.AuthStateFromContext(r.Context())
	return state.Token()
}

// openedFiles tracks multipart files handed to the backend client.
type openedFiles []io.Closer

func (o openedFiles) Close() error {
	var err error
	for _, f := range o {
		err = multierr.Append(err, f.Close())
	}
	return err
}

func openParts(headers []*multipart.FileHeader, opened *openedFiles) ([]backend.FilePart, error) {
	parts := make([]backend.FilePart, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable upload").
				WithDetails(map[string]string{"file": h.Filename})
		}
		*opened = append(*opened, f)
		parts = append(parts, backend.FilePart{
			Filename:    h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Content:     f,
		})
	}
	return parts, nil
}

func jsonField(form *multipart.Form, name string, dest any) error {
	raw := strings.TrimSpace(formValue(form, name))
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name).
			WithDetails(map[string]string{"field": name})
	}
	return nil
}

func formValue(form *multipart.Form, name string) string {
	if values := form.Value[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func parseMultipart(r *http.Request) (*multipart.Form, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return r.MultipartForm, nil
}

func roomInputFromForm(form *multipart.Form, opened *openedFiles) (admin.RoomInput, error) {
	in := admin.RoomInput{
		Title:             formValue(form, "title"),
		RoomNumber:        formValue(form, "roomNumber"),
		Description:       formValue(form, "description"),
		Status:            enums.RoomStatus(strings.TrimSpace(formValue(form, "status"))),
		ExistingFrontView: formValue(form, fieldKeepFront),
	}
	if err := jsonField(form, "configurations", &in.Configurations); err != nil {
		return in, err
	}
	if err := jsonField(form, "amenities", &in.Amenities); err != nil {
		return in, err
	}
	if err := jsonField(form, fieldKeepPicture, &in.ExistingPictures); err != nil {
		return in, err
	}
	if headers := form.File[fieldFrontView]; len(headers) > 0 {
		parts, err := openParts(headers[:1], opened)
		if err != nil {
			return in, err
		}
		in.FrontView = &parts[0]
	}
	pictures, err := openParts(form.File[fieldPictures], opened)
	if err != nil {
		return in, err
	}
	in.Pictures = pictures
	return in, nil
}

func galleryInputFromForm(form *multipart.Form, opened *openedFiles) (admin.GalleryInput, error) {
	in := admin.GalleryInput{
		Caption:  formValue(form, "caption"),
		Category: enums.GalleryCategory(strings.TrimSpace(formValue(form, "category"))),
	}
	if err := jsonField(form, fieldKeepPicture, &in.ExistingPictures); err != nil {
		return in, err
	}
	pictures, err := openParts(form.File[fieldPictures], opened)
	if err != nil {
		return in, err
	}
	in.Pictures = pictures
	return in, nil
}

func AdminRoomsList(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		rooms, err := svc.ListRooms(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rooms)
	}
}

// AdminRoomSave handles both create (no roomId) and update.
func AdminRoomSave(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		form, err := parseMultipart(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer form.RemoveAll()

		var opened openedFiles
		defer opened.Close()

		in, err := roomInputFromForm(form, &opened)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id := chi.URLParam(r, "roomId")
		result, err := svc.SaveRoom(r.Context(), adminToken(r), id, r.Header.Get(uploadIDHeader), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set(uploadIDHeader, result.UploadID)
		if id == "" {
			responses.WriteSuccessStatus(w, http.StatusCreated, result)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminRoomDelete(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		result, err := svc.DeleteRoom(r.Context(), adminToken(r), chi.URLParam(r, "roomId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminGallerySave handles both create (no galleryId) and update.
func AdminGallerySave(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		form, err := parseMultipart(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer form.RemoveAll()

		var opened openedFiles
		defer opened.Close()

		in, err := galleryInputFromForm(form, &opened)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id := chi.URLParam(r, "galleryId")
		result, err := svc.SaveGallery(r.Context(), adminToken(r), id, r.Header.Get(uploadIDHeader), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set(uploadIDHeader, result.UploadID)
		if id == "" {
			responses.WriteSuccessStatus(w, http.StatusCreated, result)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminUploadCancel(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		if err := svc.CancelUpload(chi.URLParam(r, "uploadId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AdminAmenities lists the amenity choices offered by the room editor.
func AdminAmenities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"amenities":  admin.AmenityChoices(),
			"categories": enums.GalleryCategories(),
		})
	}
}
