// memoclient uploads an audio file to the voice task service in chunks
// and runs it through the pipeline, printing the resulting task preview.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Chunks are kept small to exercise out-of-order reassembly server-side.
const chunkSize = 64 * 1024

func main() {
	audioFile := flag.String("audio", "testdata/memo.webm", "Path to audio file")
	serverAddr := flag.String("server", "http://localhost:8080", "Service base URL")
	mediaType := flag.String("media-type", "audio/webm", "MIME type of the audio file")
	householdID := flag.String("household", "demo-household", "Household ID")
	confirm := flag.Bool("confirm", false, "Confirm the preview with the top suggested assignee")
	flag.Parse()

	audio, err := os.ReadFile(*audioFile)
	if err != nil {
		log.Fatalf("Failed to read audio file: %v", err)
	}
	log.Printf("Audio file: %s (%d bytes)", *audioFile, len(audio))

	client := &http.Client{Timeout: 60 * time.Second}

	uploadID := createUpload(client, *serverAddr, *mediaType, int64(len(audio)))
	log.Printf("Upload session: %s", uploadID)

	for seq, offset := 0, 0; offset < len(audio); seq, offset = seq+1, offset+chunkSize {
		end := offset + chunkSize
		if end > len(audio) {
			end = len(audio)
		}
		putChunk(client, *serverAddr, uploadID, seq, audio[offset:end])
		log.Printf("Uploaded chunk %d (%d bytes)", seq, end-offset)
	}

	outcome := process(client, *serverAddr, uploadID, *householdID)
	if status, _ := outcome["status"].(string); status == "needs_review" {
		log.Printf("Pipeline flagged this memo for review: %v", outcome["reviewReason"])
	}
	preview, ok := outcome["preview"].(map[string]any)
	if !ok {
		log.Fatal("Malformed process response: missing preview")
	}
	fmt.Printf("\nTask preview:\n")
	fmt.Printf("  ID:        %s\n", preview["previewId"])
	fmt.Printf("  Title:     %s\n", preview["title"])
	fmt.Printf("  Category:  %s\n", preview["category"])
	fmt.Printf("  Priority:  %s\n", preview["priority"])
	if due, ok := preview["dueDate"]; ok {
		fmt.Printf("  Due:       %s\n", due)
	}

	if !*confirm {
		return
	}

	suggested, _ := preview["suggested"].([]any)
	if len(suggested) == 0 {
		log.Fatal("No suggested assignees to confirm with")
	}
	top := suggested[0].(map[string]any)
	assigneeID := top["memberId"].(string)

	task := confirmPreview(client, *serverAddr, preview["previewId"].(string), assigneeID)
	fmt.Printf("\nConfirmed task %s assigned to %s\n", task["taskId"], task["assigneeId"])
}

func createUpload(client *http.Client, base, mediaType string, sizeBytes int64) string {
	body, _ := json.Marshal(map[string]any{"mediaType": mediaType, "sizeBytes": sizeBytes})
	resp, err := client.Post(base+"/v1/uploads", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to create upload: %v", err)
	}
	result := decodeOrDie(resp, http.StatusCreated)
	if est, ok := result["estimatedProcessingSeconds"].(float64); ok && est > 0 {
		log.Printf("Estimated processing time: %.1fs", est)
	}
	return result["uploadId"].(string)
}

func putChunk(client *http.Client, base, uploadID string, seq int, data []byte) {
	url := fmt.Sprintf("%s/v1/uploads/%s/chunks/%d", base, uploadID, seq)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		log.Fatalf("Failed to build chunk request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Failed to upload chunk %d: %v", seq, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		msg, _ := io.ReadAll(resp.Body)
		log.Fatalf("Chunk %d rejected (%d): %s", seq, resp.StatusCode, msg)
	}
}

func process(client *http.Client, base, uploadID, householdID string) map[string]any {
	body, _ := json.Marshal(map[string]string{"householdId": householdID})
	resp, err := client.Post(base+"/v1/uploads/"+uploadID+"/process", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to process upload: %v", err)
	}
	return decodeOrDie(resp, http.StatusCreated)
}

func confirmPreview(client *http.Client, base, previewID, assigneeID string) map[string]any {
	body, _ := json.Marshal(map[string]string{"assigneeId": assigneeID})
	resp, err := client.Post(base+"/v1/previews/"+previewID+"/confirm", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to confirm preview: %v", err)
	}
	return decodeOrDie(resp, http.StatusOK)
}

func decodeOrDie(resp *http.Response, want int) map[string]any {
	defer resp.Body.Close()
	if resp.StatusCode != want {
		msg, _ := io.ReadAll(resp.Body)
		log.Fatalf("Unexpected status %d: %s", resp.StatusCode, msg)
	}
	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatalf("Failed to decode response: %v", err)
	}
	return result
}
