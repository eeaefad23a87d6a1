package scorelookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teppyboy/vn-thptqg-2024/lib/telemetry"
)

func TestClient(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scorelookup")
	defer cleanup()

	captchaImage := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02}

	var lastSBD, lastCaptcha string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Captcha/GetCaptchaImage":
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write(captchaImage)
		case "/Search_Score_/GetStudentMark":
			lastSBD = r.URL.Query().Get("SBD")
			lastCaptcha = r.URL.Query().Get("CaptchaValue")
			if lastSBD == "01999999" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte("Toán:8.2 Ngữ văn:7.75"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{Host: server.URL})
	require.NoError(t, err)

	ctx := context.Background()

	image, err := client.FetchCaptchaImage(ctx)
	require.NoError(t, err)
	require.Equal(t, captchaImage, image)

	status, body, err := client.Lookup(ctx, "01000001", "a7f3k")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Toán:8.2 Ngữ văn:7.75", body)
	require.Equal(t, "01000001", lastSBD)
	require.Equal(t, "a7f3k", lastCaptcha)

	// a 500 is a classification signal, not a transport error
	status, body, err = client.Lookup(ctx, "01999999", "a7f3k")
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "", body)
}
