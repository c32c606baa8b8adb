package client

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-services-teamwork/core"
)

func clientError(message string, category goerrors.Category, metadata map[string]any) error {
	err := goerrors.New(message, category).
		WithCode(core.HTTPStatus(category)).
		WithTextCode(core.TextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func clientWrapError(source error, category goerrors.Category, message string, metadata map[string]any) error {
	if source == nil {
		return clientError(message, category, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(core.HTTPStatus(category)).
		WithTextCode(core.TextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
