package utility

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"errors"
	"fmt"
	"reflect"
	"sort"
)

var errorNoHashableFields = errors.New("no hashable fields found")

// Hash - calculate the hash of the object
func Hash(obj interface{}) (string /* [32]byte */, error) {
	hashable := make(map[string]interface{})

	val := reflect.ValueOf(obj)

	// Dereference, if obj is a pointer
	val = reflect.Indirect(val)
	typ := val.Type()

	// Collect the values of the fields carrying a "hash" tag
	hasFields := false
	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		_, ok := field.Tag.Lookup("hash") // Tag presence only, the value is not checked
		if ok {
			fieldValue := val.Field(i)
			hashable[field.Name] = fieldValue.Interface()
			hasFields = true
		}
	}

	if !hasFields {
		return "", errorNoHashableFields
	}

	// Sort the keys so serialization stays stable between runs
	keys := make([]string, 0, len(hashable))
	for k := range hashable {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Serialize the selected fields with gob, in sorted order
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	for _, key := range keys {
		err := enc.Encode(hashable[key])
		if err != nil {
			return "", fmt.Errorf("failed to encode hashable fields: %w", err)
		}
	}

	// sha256 over the serialized form
	hash := sha256.Sum256(buf.Bytes())

	return fmt.Sprintf("%x", hash), nil
}
