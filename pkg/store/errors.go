package store

import "errors"

var (
	// ErrDuplicateCredential is returned by Append when the credential is
	// already in the record list. The store is unchanged.
	ErrDuplicateCredential = errors.New("credential already stored")

	// ErrCredentialNotFound is returned by RemoveAt when the credential is
	// not in the record list. The store is unchanged.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrStorageFull is returned by Append when the record list has reached
	// the image's slot capacity. The legacy controller left this case
	// undefined and would have overrun the image; here it is an explicit,
	// non-fatal rejection.
	ErrStorageFull = errors.New("credential storage full")

	// ErrMasterUndefined is returned when an operation needs a provisioned
	// master credential and the image has none.
	ErrMasterUndefined = errors.New("master credential not provisioned")

	// ErrCorrupt indicates the image failed validation at open time. This is
	// fatal at boot; the controller must not start on a corrupt image.
	ErrCorrupt = errors.New("credential image corrupt")
)
