package custodynext

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const updatedFromKey = "updatedFrom"

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if !isUpdate {
		panic("update only")
	}

	args := data.([]any)
	storage.Put(storage.GetContext(), updatedFromKey, args[len(args)-1].(int))
}

// UpdatedFrom returns version of the code replaced by this one.
func UpdatedFrom() int {
	return storage.Get(storage.GetReadOnlyContext(), updatedFromKey).(int)
}

// Has checks that storage item survived the update.
func Has(key []byte) bool {
	return storage.Get(storage.GetReadOnlyContext(), key) != nil
}
