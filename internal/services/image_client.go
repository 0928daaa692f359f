package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"

	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/utils"
)

const imageRequestTimeout = 120 * time.Second

// GeneratedPNG is one raster result from the image backend.
type GeneratedPNG struct {
	Data   []byte
	Width  int
	Height int
	Model  string
}

// GenerateOptions steer one render.
type GenerateOptions struct {
	AspectRatio string
	// References are source images the render should stay visually close to.
	// When present the edit endpoint is used instead of plain generation.
	References [][]byte
}

// ImageClient is the image-model boundary.
type ImageClient interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (*GeneratedPNG, error)
}

type openAIImageClient struct {
	log       *logger.Logger
	model     string
	editModel string
	opts      []option.RequestOption
	limiter   *rate.Limiter
}

func NewOpenAIImageClient(baseLog *logger.Logger) (ImageClient, error) {
	clientLog := baseLog.With("service", "OpenAIImageClient")
	apiKey := utils.GetEnv("OPENAI_API_KEY", "", baseLog)
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := utils.GetEnv("OPENAI_BASE_URL", "", baseLog); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	model := utils.GetEnv("OPENAI_IMAGE_MODEL", "dall-e-3", baseLog)
	// Reference-steered renders go through the edit endpoint, which dall-e-3
	// does not support.
	editModel := utils.GetEnv("OPENAI_IMAGE_EDIT_MODEL", "gpt-image-1", baseLog)
	// Image endpoints rate-limit aggressively; smooth bursts from multi-image
	// batches instead of surfacing 429s.
	rpm := utils.GetEnvAsInt("OPENAI_IMAGE_RPM", 15, baseLog)
	limiter := rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 2)
	return &openAIImageClient{log: clientLog, model: model, editModel: editModel, opts: opts, limiter: limiter}, nil
}

// sizeFor maps the action protocol's aspect ratios onto the sizes the image
// API accepts. Unknown ratios fall back to square.
func sizeFor(aspectRatio string) (openai.ImageGenerateParamsSize, int, int) {
	switch aspectRatio {
	case "16:9":
		return openai.ImageGenerateParamsSize1792x1024, 1792, 1024
	case "9:16":
		return openai.ImageGenerateParamsSize1024x1792, 1024, 1792
	default:
		return openai.ImageGenerateParamsSize1024x1024, 1024, 1024
	}
}

// editSizeFor is sizeFor for the edit endpoint, which accepts a different
// size set.
func editSizeFor(aspectRatio string) (openai.ImageEditParamsSize, int, int) {
	switch aspectRatio {
	case "16:9":
		return openai.ImageEditParamsSize1536x1024, 1536, 1024
	case "9:16":
		return openai.ImageEditParamsSize1024x1536, 1024, 1536
	default:
		return openai.ImageEditParamsSize1024x1024, 1024, 1024
	}
}

func (c *openAIImageClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*GeneratedPNG, error) {
	ctx, cancel := context.WithTimeout(ctx, imageRequestTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", errdef.ErrTimeout, err)
	}

	if len(opts.References) > 0 {
		return c.edit(ctx, prompt, opts)
	}

	size, w, h := sizeFor(opts.AspectRatio)
	client := openai.NewClient(c.opts...)
	resp, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(c.model),
		Size:           size,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
		N:              openai.Int(1),
	})
	if err != nil {
		return nil, c.wrapImageErr(err)
	}
	return c.decode(resp, c.model, w, h)
}

// edit re-renders against the supplied reference images.
func (c *openAIImageClient) edit(ctx context.Context, prompt string, opts GenerateOptions) (*GeneratedPNG, error) {
	size, w, h := editSizeFor(opts.AspectRatio)
	files := make([]io.Reader, 0, len(opts.References))
	for i, ref := range opts.References {
		files = append(files, openai.File(bytes.NewReader(ref), fmt.Sprintf("reference-%d.png", i), "image/png"))
	}
	client := openai.NewClient(c.opts...)
	resp, err := client.Images.Edit(ctx, openai.ImageEditParams{
		Image:  openai.ImageEditParamsImageUnion{OfFileArray: files},
		Prompt: prompt,
		Model:  openai.ImageModel(c.editModel),
		Size:   size,
		N:      openai.Int(1),
	})
	if err != nil {
		return nil, c.wrapImageErr(err)
	}
	return c.decode(resp, c.editModel, w, h)
}

func (c *openAIImageClient) wrapImageErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: image call exceeded %s", errdef.ErrTimeout, imageRequestTimeout)
	}
	return fmt.Errorf("%w: %v", errdef.ErrUnavailable, err)
}

func (c *openAIImageClient) decode(resp *openai.ImagesResponse, model string, w, h int) (*GeneratedPNG, error) {
	if resp == nil || len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("%w: image backend returned no data", errdef.ErrUnavailable)
	}
	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: image payload not decodable: %v", errdef.ErrUnavailable, err)
	}
	return &GeneratedPNG{Data: raw, Width: w, Height: h, Model: model}, nil
}
