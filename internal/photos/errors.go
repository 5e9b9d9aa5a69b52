package photos

import (
	"errors"
	"fmt"
)

// ErrAssetIO matches every failure of the photo store.
var ErrAssetIO = errors.New("photo storage failed")

// AssetError carries the operation and the bookmark id that failed.
type AssetError struct {
	Op  string
	ID  uint
	Err error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("photo %s for bookmark %d: %v", e.Op, e.ID, e.Err)
}

func (e *AssetError) Unwrap() []error {
	return []error{ErrAssetIO, e.Err}
}

func assetErr(op string, id uint, err error) error {
	return &AssetError{Op: op, ID: id, Err: err}
}
