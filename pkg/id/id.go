package id

import (
	"strconv"

	"github.com/fox-one/pkg/uuid"
	uuidv4 "github.com/gofrs/uuid"
)

// GenTraceID new random trace id
func GenTraceID() string {
	return uuidv4.Must(uuidv4.NewV4()).String()
}

// Child trace id of the idx-th item under trace
func Child(trace string, idx int) string {
	return uuid.Modify(trace, strconv.Itoa(idx))
}
