package handlers

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/facultysite/internal/auth"
	"github.com/charlesng35/facultysite/internal/services"
	"github.com/charlesng35/facultysite/pkg/errors"
	"github.com/charlesng35/facultysite/pkg/response"
)

// notFoundErrors maps service sentinels to the display name used in 404 messages.
var notFoundErrors = []struct {
	err      error
	resource string
}{
	{services.ErrCourseNotFound, "Course"},
	{services.ErrChapterNotFound, "Chapter"},
	{services.ErrPublicationNotFound, "Publication"},
	{services.ErrResearchWorkNotFound, "Research work"},
	{services.ErrUserNotFound, "User"},
}

// translateError converts service failures into client facing AppErrors.
// Unknown errors become a generic 500 carrying the cause for logging.
func translateError(err error) *errors.AppError {
	if err == nil {
		return nil
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var validation *services.ValidationError
	if stderrors.As(err, &validation) {
		return errors.NewValidation(validation.Message)
	}

	var tooLarge *services.FileTooLargeError
	if stderrors.As(err, &tooLarge) {
		return errors.ErrFileTooLarge.WithMessage(tooLarge.Error())
	}

	for _, candidate := range notFoundErrors {
		if stderrors.Is(err, candidate.err) {
			return errors.NewNotFound(candidate.resource)
		}
	}

	switch {
	case stderrors.Is(err, services.ErrDuplicateCourse):
		return errors.NewDuplicate("Course with this code already exists in this semester")
	case stderrors.Is(err, services.ErrDuplicateEmail):
		return errors.NewDuplicate("User already exists with this email")
	case stderrors.Is(err, services.ErrInvalidToken), stderrors.Is(err, services.ErrTokenExpired):
		return errors.ErrInvalidToken
	case stderrors.Is(err, services.ErrInvalidCredentials):
		return errors.ErrInvalidCredentials
	case stderrors.Is(err, services.ErrEmailNotVerified):
		return errors.ErrEmailNotVerified
	case stderrors.Is(err, services.ErrNoFile):
		return errors.NewValidation("No file uploaded")
	case stderrors.Is(err, services.ErrUnsupportedType):
		return errors.ErrUnsupportedType
	case stderrors.Is(err, services.ErrVerificationEmailFailed):
		return errors.Wrap(err, "Failed to send verification email. Please try again later.")
	case stderrors.Is(err, services.ErrResetEmailFailed):
		return errors.Wrap(err, "Failed to send password reset email. Please try again later.")
	case stderrors.Is(err, iauth.ErrSessionNotFound),
		stderrors.Is(err, iauth.ErrSessionRevoked),
		stderrors.Is(err, iauth.ErrSessionExpired),
		stderrors.Is(err, iauth.ErrSessionInvalidToken):
		return errors.ErrUnauthorized
	}

	return errors.ErrInternalServer.WithInternal(err)
}

func respondError(c *gin.Context, err error) {
	response.Error(c, translateError(err))
}
