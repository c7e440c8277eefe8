package resthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

var runOnce sync.Once
var restyClient *resty.Client

// Error non 2xx response
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}

// Client shared resty client, transport failures are retried twice
func Client() *resty.Client {
	runOnce.Do(func() {
		restyClient = resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Charset", "utf-8").
			SetTimeout(10 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(100 * time.Millisecond)
	})

	return restyClient
}

// Request new resty request
func Request(ctx context.Context) *resty.Request {
	return Client().R().SetContext(ctx)
}

// GetJSON fetches url and decodes the body into obj
func GetJSON(ctx context.Context, url string, obj interface{}) error {
	resp, err := Request(ctx).Get(url)
	if err != nil {
		return err
	}

	return ParseResponse(resp, obj)
}

// ParseResponse decodes a 2xx body into obj, other statuses become *Error
func ParseResponse(r *resty.Response, obj interface{}) error {
	if !r.IsSuccess() {
		return &Error{Status: r.StatusCode(), Body: string(r.Body())}
	}

	if obj != nil {
		return json.Unmarshal(r.Body(), obj)
	}

	return nil
}
