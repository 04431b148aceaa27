package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // Runs can take a while, no timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

// Multipart helper for queries with manual uploads
func sendMultipart(url, token, question string, filePaths []string) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("question", question)
	for _, p := range filePaths {
		f, err := os.Open(p)
		if err != nil {
			return nil, nil, err
		}
		part, err := w.CreateFormFile("files", filepath.Base(p))
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		io.Copy(part, f)
		f.Close()
	}
	w.Close()

	req, err := http.NewRequest("POST", baseURL+url, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	userToken := os.Getenv("TEST_USER_TOKEN")
	if userToken == "" {
		color.Red("TEST_USER_TOKEN is not set")
		os.Exit(1)
	}

	color.Cyan("🚀 Starting Assistant API Test\n")

	// 1. Library-only question (no uploads)
	color.Yellow("\n[USER] 1. Ask a question with no uploads")
	resp, body, err := sendRequest("POST", "/assistant/v1/query", userToken, map[string]interface{}{
		"question": "What is the torque spec for the compressor mounting bolts?",
		"trade":    "hvac",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var queryResp map[string]interface{}
	json.Unmarshal(body, &queryResp)
	prettyPrint(queryResp)

	// 2. Question with an uploaded manual
	if manual := os.Getenv("TEST_MANUAL_PATH"); manual != "" {
		color.Yellow("\n[USER] 2. Ask with an uploaded manual")
		resp, body, err = sendMultipart("/assistant/v1/query", userToken,
			"What does fault code E4 mean on this unit?", []string{manual})
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		json.Unmarshal(body, &queryResp)
		prettyPrint(queryResp)

		// 3. Repeat the same upload: should dedup, not re-upload
		color.Yellow("\n[USER] 3. Repeat the same upload (dedup check)")
		resp, body, err = sendMultipart("/assistant/v1/query", userToken,
			"List the refrigerant charge for this unit.", []string{manual})
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		json.Unmarshal(body, &queryResp)
		prettyPrint(queryResp)
	}

	// 4. Admin: list library files
	if adminKey := os.Getenv("ADMIN_LIBRARY_KEY"); adminKey != "" {
		color.Yellow("\n[ADMIN] 4. List library files")
		req, _ := http.NewRequest("GET", baseURL+"/assistant/v1/library/files", nil)
		req.Header.Set("X-Admin-Library-Key", adminKey)
		apiResp, err := http.DefaultClient.Do(req)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		defer apiResp.Body.Close()
		respBody, _ := io.ReadAll(apiResp.Body)
		color.Green("Status: %s", apiResp.Status)
		var listResp map[string]interface{}
		json.Unmarshal(respBody, &listResp)
		prettyPrint(listResp)
	}

	color.Cyan("\n✅ Assistant API test finished")
}
