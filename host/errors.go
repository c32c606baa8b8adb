package host

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-services-teamwork/core"
)

func hostError(message string, category goerrors.Category, textCode string, metadata map[string]any) error {
	err := goerrors.New(message, category).
		WithCode(core.HTTPStatus(category)).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func hostBadInput(message string, metadata map[string]any) error {
	return hostError(message, goerrors.CategoryBadInput, core.ErrorBadInput, metadata)
}

func hostInternal(message string, metadata map[string]any) error {
	return hostError(message, goerrors.CategoryInternal, core.ErrorInternal, metadata)
}

func hostConflict(message string, metadata map[string]any) error {
	return hostError(message, goerrors.CategoryConflict, core.ErrorHostFailed, metadata)
}
