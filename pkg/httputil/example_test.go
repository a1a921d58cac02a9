package httputil_test

import (
	"fmt"
	"net/http/httptest"

	apperr "github.com/matzehuels/glitchid/pkg/errors"
	"github.com/matzehuels/glitchid/pkg/httputil"
)

func ExampleWriteError() {
	rec := httptest.NewRecorder()
	httputil.WriteError(rec, apperr.New(apperr.ErrCodeInvalidFormat, "invalid format: %q", "svg"))

	fmt.Println(rec.Code)
	fmt.Print(rec.Body.String())
	// Output:
	// 400
	// {"error":{"code":"INVALID_FORMAT","message":"invalid format: \"svg\""}}
}

func ExampleAttachmentDisposition() {
	fmt.Println(httputil.AttachmentDisposition("identity_glitch_NEO.png"))
	// Output:
	// attachment; filename=identity_glitch_NEO.png
}
