// Package admin lets staff manage rooms and gallery entries. Images are
// forwarded to the hotel API as multipart uploads that can be cancelled while
// in flight.
package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/hearth-storefront/pkg/backend"
	"github.com/angelmondragon/hearth-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
	"github.com/go-playground/validator/v10"
)

const (
	msgFrontViewRequired = "Front view image is required."
	msgSlideshowRequired = "At least one slideshow image is required."
	msgImageRequired     = "At least one image is required."
	msgRoomCancelled     = "Room creation was cancelled."
	msgGalleryCancelled  = "Operation cancelled."
	msgOperationFailed   = "Operation failed"
	msgDeleteFailed      = "Failed to delete room"
	msgFetchRoomsFailed  = "An error occurred during fetching rooms."
	msgRoomCreated       = "Room created successfully"
	msgRoomUpdated       = "Room updated successfully"
	msgRoomDeleted       = "Room deleted successfully"
	msgGalleryCreated    = "Gallery created successfully"
	msgGalleryUpdated    = "Gallery updated successfully"
)

var (
	errUploadCancelled = errors.New("upload cancelled by admin")
	errUploadReplaced  = errors.New("upload replaced by a newer submission")
)

type adminClient interface {
	ListRooms(ctx context.Context) ([]types.Room, error)
	CreateRoom(ctx context.Context, token string, form backend.RoomForm) (*backend.MessageResult, error)
	UpdateRoom(ctx context.Context, token, id string, form backend.RoomForm) (*backend.MessageResult, error)
	DeleteRoom(ctx context.Context, token, id string) (*backend.MessageResult, error)
	CreateGallery(ctx context.Context, token string, form backend.GalleryForm) (*backend.MessageResult, error)
	UpdateGallery(ctx context.Context, token, id string, form backend.GalleryForm) (*backend.MessageResult, error)
}

// Result confirms an admin action.
type Result struct {
	Message  string `json:"message"`
	UploadID string `json:"upload_id,omitempty"`
}

type Service struct {
	client   adminClient
	validate *validator.Validate
	uploads  *uploads
	logg     *logger.Logger
}

func NewService(client adminClient, logg *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "admin client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		client:   client,
		validate: validator.New(),
		uploads:  newUploads(),
		logg:     logg,
	}, nil
}

// ListRooms returns every room for the management table.
func (s *Service) ListRooms(ctx context.Context) ([]types.Room, error) {
	rooms, err := s.client.ListRooms(ctx)
	if err != nil {
		s.logg.Error(ctx, "admin list rooms failed", err)
		status, _ := backend.StatusOf(err)
		if msg := backend.MessageOf(err); status == 404 && msg != "" {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msg)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgFetchRoomsFailed)
	}
	if rooms == nil {
		rooms = []types.Room{}
	}
	return rooms, nil
}

// SaveRoom creates the room when id is empty and updates it otherwise.
// uploadID names the submission for CancelUpload; an empty one is generated.
func (s *Service) SaveRoom(ctx context.Context, token, id, uploadID string, in RoomInput) (*Result, error) {
	if in.Status == "" {
		in.Status = enums.RoomStatusAvailable
	}
	if err := s.validateRoom(in); err != nil {
		return nil, err
	}

	form := backend.RoomForm{
		Title:          strings.TrimSpace(in.Title),
		RoomNumber:     strings.TrimSpace(in.RoomNumber),
		Description:    in.Description,
		Configurations: in.Configurations,
		Status:         in.Status,
		Amenities:      in.Amenities,
		ImagesToKeep:   keysFromURLs(in.ExistingPictures),
		KeepFrontView:  in.FrontView == nil && strings.TrimSpace(in.ExistingFrontView) != "",
		FrontView:      in.FrontView,
		Pictures:       in.Pictures,
	}

	uploadID, uploadCtx, done := s.uploads.begin(ctx, uploadID)
	defer done()

	var err error
	message := msgRoomCreated
	if strings.TrimSpace(id) == "" {
		_, err = s.client.CreateRoom(uploadCtx, token, form)
	} else {
		message = msgRoomUpdated
		_, err = s.client.UpdateRoom(uploadCtx, token, id, form)
	}
	if err != nil {
		return nil, s.uploadError(uploadCtx, err, msgRoomCancelled)
	}
	return &Result{Message: message, UploadID: uploadID}, nil
}

func (s *Service) DeleteRoom(ctx context.Context, token, id string) (*Result, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room id is required")
	}
	if _, err := s.client.DeleteRoom(ctx, token, id); err != nil {
		s.logg.Error(s.logg.WithRoomID(ctx, id), "delete room failed", err)
		code := pkgerrors.CodeDependency
		if typed := pkgerrors.As(err); typed != nil {
			code = typed.Code()
		}
		return nil, pkgerrors.Wrap(code, err, msgDeleteFailed)
	}
	return &Result{Message: msgRoomDeleted}, nil
}

// SaveGallery creates the entry when id is empty and updates it otherwise.
func (s *Service) SaveGallery(ctx context.Context, token, id, uploadID string, in GalleryInput) (*Result, error) {
	if err := s.validateGallery(in); err != nil {
		return nil, err
	}
	form := backend.GalleryForm{
		Caption:      strings.TrimSpace(in.Caption),
		Category:     in.Category,
		ImagesToKeep: keysFromURLs(in.ExistingPictures),
		Pictures:     in.Pictures,
	}

	uploadID, uploadCtx, done := s.uploads.begin(ctx, uploadID)
	defer done()

	var err error
	message := msgGalleryCreated
	if strings.TrimSpace(id) == "" {
		_, err = s.client.CreateGallery(uploadCtx, token, form)
	} else {
		message = msgGalleryUpdated
		_, err = s.client.UpdateGallery(uploadCtx, token, id, form)
	}
	if err != nil {
		return nil, s.uploadError(uploadCtx, err, msgGalleryCancelled)
	}
	return &Result{Message: message, UploadID: uploadID}, nil
}

// CancelUpload aborts a running room or gallery submission.
func (s *Service) CancelUpload(uploadID string) error {
	if !s.uploads.cancel(uploadID) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no upload in progress").
			WithDetails(map[string]string{"upload_id": uploadID})
	}
	return nil
}

func (s *Service) uploadError(ctx context.Context, err error, cancelledMsg string) error {
	if cause := context.Cause(ctx); errors.Is(cause, errUploadCancelled) || errors.Is(cause, errUploadReplaced) {
		s.logg.Info(ctx, "admin upload cancelled")
		return pkgerrors.Wrap(pkgerrors.CodeCanceled, err, cancelledMsg)
	}
	s.logg.Error(ctx, "admin upload failed", err)
	msg := backend.MessageOf(err)
	if msg == "" {
		msg = msgOperationFailed
	}
	code := pkgerrors.CodeDependency
	if typed := pkgerrors.As(err); typed != nil {
		code = typed.Code()
	}
	return pkgerrors.Wrap(code, err, msg)
}
