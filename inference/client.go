package inference

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fedepasi/racetagger-training/models"
)

// DetectorClient communicates with the external object-detection sidecar.
// The detector's internals (model, runtime) stay outside this repo; only the
// HTTP contract is ours.
type DetectorClient struct {
	serviceURL string
	client     *http.Client
}

// DetectionResponse is the sidecar's reply for one image.
type DetectionResponse struct {
	Detections []models.Detection `json:"detections"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
}

// NewDetectorClient creates a client for the detector service.
func NewDetectorClient(serviceURL string) *DetectorClient {
	if serviceURL == "" {
		serviceURL = "http://localhost:5003"
	}
	return &DetectorClient{
		serviceURL: serviceURL,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// HealthCheck verifies the detector service is running.
func (dc *DetectorClient) HealthCheck() error {
	resp, err := dc.client.Get(dc.serviceURL + "/health")
	if err != nil {
		return fmt.Errorf("detector service not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("detector service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// DetectFile uploads an image and returns every detection at or above the
// confidence threshold, plus the image dimensions the boxes refer to.
func (dc *DetectorClient) DetectFile(imagePath string, confidence float64) (DetectionResponse, error) {
	file, err := os.Open(filepath.Clean(imagePath))
	if err != nil {
		return DetectionResponse{}, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return DetectionResponse{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return DetectionResponse{}, fmt.Errorf("failed to copy file data: %w", err)
	}
	if err := writer.WriteField("confidence", strconv.FormatFloat(confidence, 'f', 3, 64)); err != nil {
		return DetectionResponse{}, fmt.Errorf("failed to write confidence field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return DetectionResponse{}, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequest("POST", dc.serviceURL+"/detect", body)
	if err != nil {
		return DetectionResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := dc.client.Do(req)
	if err != nil {
		return DetectionResponse{}, fmt.Errorf("detection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return DetectionResponse{}, fmt.Errorf("detector service returned status %d: %s",
			resp.StatusCode, string(bodyBytes))
	}

	var result DetectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return DetectionResponse{}, fmt.Errorf("unable to parse detection response: %w", err)
	}
	return result, nil
}
