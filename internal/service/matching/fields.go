package matching

import (
	"math"
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	svcErr "github.com/oggyb/amigo-matching/internal/errors"
)

// idField reads a required user id. Ids are decimal strings; whole JSON numbers
// are accepted too since Struct has no integer kind.
func idField(req *structpb.Struct, name string) (int64, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, svcErr.InvalidArgument(name + " is required")
	}
	var (
		id  int64
		err error
	)
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		id, err = strconv.ParseInt(strings.TrimSpace(k.StringValue), 10, 64)
	case *structpb.Value_NumberValue:
		if k.NumberValue != math.Trunc(k.NumberValue) || math.Abs(k.NumberValue) > 1<<53 {
			err = strconv.ErrSyntax
		}
		id = int64(k.NumberValue)
	default:
		err = strconv.ErrSyntax
	}
	if err != nil || id <= 0 {
		return 0, svcErr.InvalidArgument(name + " must be a positive int64")
	}
	return id, nil
}

// intField reads an optional integer; absent fields return 0.
func intField(req *structpb.Struct, name string) (int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		if k.NumberValue == math.Trunc(k.NumberValue) && math.Abs(k.NumberValue) <= math.MaxInt32 {
			return int(k.NumberValue), nil
		}
	case *structpb.Value_StringValue:
		if n, err := strconv.Atoi(strings.TrimSpace(k.StringValue)); err == nil {
			return n, nil
		}
	case *structpb.Value_NullValue:
		return 0, nil
	}
	return 0, svcErr.InvalidArgument(name + " must be an integer")
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// optionalString returns nil for absent, null and empty values.
func optionalString(req *structpb.Struct, name string) *string {
	s := stringField(req, name)
	if s == "" {
		return nil
	}
	return &s
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func derefOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
