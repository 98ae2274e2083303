// Command smoke mints a token from the server's config and creates, reads
// and deletes one device against a running server.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"bioserver/config"
	"bioserver/logutils"
	"bioserver/util"
)

type client struct {
	http    *http.Client
	baseURL string
	token   string
}

func (c *client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("can't create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, err
}

func run(ctx context.Context, c *client) error {
	status, body, err := c.do(ctx, http.MethodPost, "/device", map[string]any{
		"name":               "smoke-device",
		"role":               "REPORTER",
		"sequence":           "ATGGTGAGCAAGGGCGAG",
		"createSeqFromParts": false,
		"parameters":         []map[string]any{{"value": 0.1, "variable": "kdeg", "units": "1/min"}},
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("create device: %d %s", status, body)
	}
	var created struct {
		BioDesign struct {
			ID string `json:"_id"`
		} `json:"createBioDesign"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return err
	}
	id := created.BioDesign.ID
	logutils.Log.WithFields(logutils.Fields{"id": id}).Info("device created")

	for _, step := range []struct {
		method string
		want   int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodDelete, http.StatusOK},
		{http.MethodGet, http.StatusNotFound},
	} {
		status, body, err := c.do(ctx, step.method, "/device/"+id, nil)
		if err != nil {
			return err
		}
		if status != step.want {
			return fmt.Errorf("%s /device/%s: got %d want %d: %s", step.method, id, status, step.want, body)
		}
	}
	return nil
}

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base URL")
	userID := flag.String("user", "smoke", "user id to put in the token")
	flag.Parse()

	tokens := util.NewTokenManager(config.GetConfig().Auth)
	access, _, err := tokens.CreateTokens(&util.JWTMessage{UserID: *userID, Username: *userID})
	if err != nil {
		logutils.Log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	c := &client{http: &http.Client{}, baseURL: *baseURL, token: access}
	if err := run(ctx, c); err != nil {
		logutils.Log.Error("smoke failed: ", err)
		os.Exit(1)
	}
	logutils.Log.Info("smoke passed")
}
