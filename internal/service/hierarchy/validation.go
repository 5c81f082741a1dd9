package hierarchy

import (
	"fmt"

	"docspace/internal/config"
	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	hierarchySvc "docspace/internal/domain/services/hierarchy"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func validationErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

func (m *mutator) validateCreateRoom(req *hierarchySvc.CreateRoomRequest) error {
	return validationErr(validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.RuneLength(1, config.MaxFolderTitleLength),
		),
		validation.Field(&req.FolderType,
			validation.Required,
			validation.By(func(any) error {
				if !m.types.IsRoom(req.FolderType) {
					return fmt.Errorf("%q is not a room type", req.FolderType)
				}
				return nil
			}),
		),
		validation.Field(&req.QuotaBytes, validation.Min(int64(0))),
	))
}

func validateCreateFolder(req *hierarchySvc.CreateFolderRequest) error {
	return validationErr(validation.ValidateStruct(req,
		validation.Field(&req.ParentID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.RuneLength(1, config.MaxFolderTitleLength),
		),
	))
}

func validateCreateFile(req *hierarchySvc.CreateFileRequest) error {
	return validationErr(validation.ValidateStruct(req,
		validation.Field(&req.FolderID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.RuneLength(1, config.MaxFileTitleLength),
		),
		validation.Field(&req.ContentLength, validation.Min(int64(0))),
		validation.Field(&req.Comment, validation.RuneLength(0, config.MaxCommentLength)),
	))
}

func validateAddVersion(req *hierarchySvc.AddVersionRequest) error {
	return validationErr(validation.ValidateStruct(req,
		validation.Field(&req.FileID, validation.Required),
		validation.Field(&req.Title, validation.RuneLength(0, config.MaxFileTitleLength)),
		validation.Field(&req.ContentLength, validation.Min(int64(0))),
		validation.Field(&req.Comment, validation.RuneLength(0, config.MaxCommentLength)),
		validation.Field(&req.Forcesave, validation.In(
			models.ForcesaveNone,
			models.ForcesaveUser,
			models.ForcesaveSystem,
		)),
		validation.Field(&req.ExpectedCurrent, validation.Min(0)),
	))
}

func validatePromoteVersion(req *hierarchySvc.PromoteVersionRequest) error {
	return validationErr(validation.ValidateStruct(req,
		validation.Field(&req.FileID, validation.Required),
		validation.Field(&req.Version, validation.Required, validation.Min(1)),
		validation.Field(&req.ExpectedCurrent, validation.Min(0)),
	))
}

func validateSetOrder(req *hierarchySvc.SetOrderRequest) error {
	return validationErr(validation.ValidateStruct(req,
		validation.Field(&req.ParentID, validation.Required),
		validation.Field(&req.EntryID, validation.Required),
		validation.Field(&req.EntryType,
			validation.Required,
			validation.In(models.EntryTypeFile, models.EntryTypeFolder),
		),
		validation.Field(&req.Order, validation.Required, validation.Min(1)),
	))
}
