package rembg

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"strings"
	"time"

	nhttp "github.com/chaos-io/cutout/util/http"
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

const (
	inputPlaceholder    = `"__INPUT_IMAGE__"`
	defaultPollInterval = 500 * time.Millisecond
)

//go:embed workflow.json
var workflowData string

// BiRefNetRemBG runs the BiRefNet workflow on a ComfyUI server: upload the
// image, queue the prompt, poll the history until the SaveImage node has an
// output and download it.
type BiRefNetRemBG struct {
	baseURL      string
	clientID     string
	pollInterval time.Duration
	cli          nhttp.IClient
	logger       *zap.Logger
}

func NewBiRefNetRemBG(baseURL string, timeout time.Duration) *BiRefNetRemBG {
	return &BiRefNetRemBG{
		baseURL:      strings.TrimRight(baseURL, "/") + "/",
		clientID:     uuid.NewString(),
		pollInterval: defaultPollInterval,
		cli:          nhttp.NewHTTPClientWithTimeout(timeout),
		logger:       zap.NewNop(),
	}
}

func (b *BiRefNetRemBG) Segment(ctx context.Context, img *image.NRGBA) (image.Image, error) {
	uploaded, err := b.uploadImage(ctx, img)
	if err != nil {
		return nil, err
	}

	promptID, err := b.prompt(ctx, uploaded)
	if err != nil {
		return nil, err
	}

	out, err := b.waitForOutput(ctx, promptID)
	if err != nil {
		return nil, err
	}

	data, err := b.view(ctx, out)
	if err != nil {
		return nil, err
	}
	return decodeResult(data)
}

type uploadImageResp struct {
	Name      string `json:"name"`
	Subfolder string `json:"subfolder"`
	Type      string `json:"type"`
}

// ref is the path LoadImage expects, relative to the input directory.
func (u *uploadImageResp) ref() string {
	if u.Subfolder == "" {
		return u.Name
	}
	return u.Subfolder + "/" + u.Name
}

/*
	curl -X POST "$BASE_URL/api/upload/image" \
	  -F "image=@my_image.png" \
	  -F "type=input" \
	  -F "overwrite=true"

{"name": "my_image1.png", "subfolder": "", "type": "input"}
*/
func (b *BiRefNetRemBG) uploadImage(ctx context.Context, img image.Image) (*uploadImageResp, error) {
	name := ksuid.New().String() + ".png"
	body, contentType, err := multipartImage("image", name, img, map[string]string{
		"type":      "input",
		"overwrite": "true",
	})
	if err != nil {
		return nil, err
	}

	resp := &uploadImageResp{}
	reqParam := &nhttp.RequestParam{
		RequestURI: b.baseURL + "api/upload/image",
		Method:     http.MethodPost,
		Header:     map[string]string{"Content-Type": contentType},
		Body:       body,
		Response:   resp,
	}
	if err := b.cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	if resp.Name == "" {
		return nil, errors.New("upload image: server returned no file name")
	}

	b.logger.Debug("uploaded image", zap.String("name", resp.Name), zap.String("subfolder", resp.Subfolder))
	return resp, nil
}

type promptResp struct {
	PromptID string `json:"prompt_id"`
	Number   int    `json:"number"`
}

/*
	curl -X POST "$BASE_URL/api/prompt" \
	  -H "Content-Type: application/json" \
	  -d '{"prompt": '"$(cat workflow.json)"'}'
*/
func (b *BiRefNetRemBG) prompt(ctx context.Context, uploaded *uploadImageResp) (string, error) {
	ref, err := json.Marshal(uploaded.ref())
	if err != nil {
		return "", fmt.Errorf("marshal image ref: %w", err)
	}

	wk := map[string]any{}
	if err := json.Unmarshal([]byte(strings.Replace(workflowData, inputPlaceholder, string(ref), 1)), &wk); err != nil {
		return "", fmt.Errorf("unmarshal workflow data: %w", err)
	}

	resp := &promptResp{}
	reqParam := &nhttp.RequestParam{
		RequestURI: b.baseURL + "api/prompt",
		Method:     http.MethodPost,
		Body:       map[string]any{"prompt": wk, "client_id": b.clientID},
		Response:   resp,
	}
	if err := b.cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return "", fmt.Errorf("queue prompt: %w", err)
	}
	if resp.PromptID == "" {
		return "", errors.New("queue prompt: server returned no prompt id")
	}

	b.logger.Debug("queued prompt", zap.String("prompt_id", resp.PromptID), zap.Int("number", resp.Number))
	return resp.PromptID, nil
}

type outputImage struct {
	Filename  string `json:"filename"`
	Subfolder string `json:"subfolder"`
	Type      string `json:"type"`
}

type historyEntry struct {
	Outputs map[string]struct {
		Images []outputImage `json:"images"`
	} `json:"outputs"`
	Status struct {
		StatusStr string `json:"status_str"`
		Completed bool   `json:"completed"`
	} `json:"status"`
}

// waitForOutput polls /api/history/{id} until the prompt finished.
func (b *BiRefNetRemBG) waitForOutput(ctx context.Context, promptID string) (*outputImage, error) {
	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		history := map[string]historyEntry{}
		reqParam := &nhttp.RequestParam{
			RequestURI: b.baseURL + "api/history/" + url.PathEscape(promptID),
			Method:     http.MethodGet,
			Response:   &history,
		}
		if err := b.cli.DoHTTPRequest(ctx, reqParam); err != nil {
			return nil, fmt.Errorf("get history: %w", err)
		}

		if entry, ok := history[promptID]; ok {
			if entry.Status.StatusStr == "error" {
				return nil, fmt.Errorf("prompt %s failed", promptID)
			}
			for _, node := range entry.Outputs {
				for i := range node.Images {
					if node.Images[i].Type == "output" {
						return &node.Images[i], nil
					}
				}
			}
			if entry.Status.Completed {
				return nil, fmt.Errorf("prompt %s completed without an output image", promptID)
			}
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for prompt %s: %w", promptID, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (b *BiRefNetRemBG) view(ctx context.Context, out *outputImage) ([]byte, error) {
	q := url.Values{}
	q.Set("filename", out.Filename)
	q.Set("subfolder", out.Subfolder)
	q.Set("type", out.Type)

	var data []byte
	reqParam := &nhttp.RequestParam{
		RequestURI: b.baseURL + "api/view?" + q.Encode(),
		Method:     http.MethodGet,
		Response:   &data,
	}
	if err := b.cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return nil, fmt.Errorf("download output %s: %w", out.Filename, err)
	}
	return data, nil
}
