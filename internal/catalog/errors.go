package catalog

import (
	goerrors "github.com/goliatone/go-errors"
)

const introspectionFailedCode = "SCHEMA_INTROSPECTION_FAILED"

func wrapIntrospectionError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryOperation, "schema introspection failed").
		WithTextCode(introspectionFailedCode)
}
