// Package httpclient is the HTTP client shared by the sidecar providers, the
// page scrapers and the audio downloader.
//
// Every call goes through a retry loop and a circuit breaker built from a
// resilience.Policy. Failures come back as *errors.AppError values so the
// retry loop and callers can tell transient failures from permanent ones:
//
//	client, _ := httpclient.New(httpclient.Config{
//	    Name:    "whisper",
//	    BaseURL: "http://localhost:8387",
//	    Timeout: 10 * time.Minute,
//	})
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/transcribe",
//	    Body: &httpclient.MultipartBody{
//	        Fields: map[string]string{"model": "base"},
//	        Files:  []httpclient.FileField{{FieldName: "file", Path: wav}},
//	    },
//	})
//
// DoStream hands back the open body for large downloads and is not retried.
package httpclient
