package keyrate

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body>
    <KeyRateResponse xmlns="http://web.cbr.ru/">
      <KeyRateResult>
        <diffgram>
          <KeyRate>
            <KR>
              <DT>2024-06-10T00:00:00+03:00</DT>
              <Rate>16.00</Rate>
            </KR>
            <KR>
              <DT>2024-06-09T00:00:00+03:00</DT>
              <Rate>15.50</Rate>
            </KR>
          </KeyRate>
        </diffgram>
      </KeyRateResult>
    </KeyRateResponse>
  </soap:Body>
</soap:Envelope>`

func TestParseXMLResponse(t *testing.T) {
	rate, err := parseXMLResponse([]byte(sampleResponse))
	require.NoError(t, err)
	assert.Equal(t, 16.00, rate)
}

func TestParseXMLResponse_NoData(t *testing.T) {
	_, err := parseXMLResponse([]byte(`<?xml version="1.0"?><empty/>`))
	assert.Error(t, err)
}

func TestGetKeyRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "<KeyRate")
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	log := logrus.New()
	log.SetOutput(io.Discard)
	client := NewClient(srv.URL, log)

	rate, err := client.GetKeyRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 16.00, rate)
}
