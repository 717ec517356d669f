package mongoclient

import (
	"errors"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
)

var (
	ErrNotStruct = errors.New("patchable must be a struct or a pointer to one")
)

// MakeBsonM turns a patchable struct into a $set document.
// Nil pointers and zero values are left out, non-nil pointers are dereferenced.
func MakeBsonM(patchable interface{}) (bson.M, error) {
	val := reflect.Indirect(reflect.ValueOf(patchable))
	if val.Kind() != reflect.Struct {
		return nil, ErrNotStruct
	}

	res := bson.M{}
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanInterface() || field.IsZero() {
			continue
		}

		tag, err := bsoncodec.DefaultStructTagParser(typ.Field(i))
		if err != nil {
			return nil, err
		}
		if tag.Skip {
			continue
		}

		if field.Kind() == reflect.Ptr {
			field = field.Elem()
		}
		res[tag.Name] = field.Interface()
	}
	return res, nil
}
