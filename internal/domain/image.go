package domain

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Image is one stored file entry attached to a product.
type Image struct {
	ServiceName string  `json:"serviceName"`
	BucketName  string  `json:"bucketName"`
	Key         string  `json:"key"`
	Filename    string  `json:"filename"`
	ContentType string  `json:"contentType"`
	Size        float64 `json:"size"`
}

// URL returns the inner image route for the entry.
func (i Image) URL() string {
	return "/image/" + url.PathEscape(i.BucketName) + "/" + url.PathEscape(i.Key)
}

type rawImage struct {
	ServiceName *string  `json:"serviceName"`
	BucketName  *string  `json:"bucketName"`
	Key         *string  `json:"key"`
	Filename    *string  `json:"filename"`
	ContentType *string  `json:"contentType"`
	Size        *float64 `json:"size"`
}

func (r rawImage) complete() bool {
	return r.ServiceName != nil && r.BucketName != nil && r.Key != nil &&
		r.Filename != nil && r.ContentType != nil && r.Size != nil
}

// ParseImages decodes a product images column. The column holds either a JSON
// array of file entries or a JSON string wrapping such an array. Anything that
// does not match yields no images; a single malformed entry discards the list.
func ParseImages(raw []byte) []Image {
	data := []byte(strings.TrimSpace(string(raw)))
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(inner))
	}
	if len(data) == 0 || data[0] != '[' {
		return nil
	}
	var entries []rawImage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	images := make([]Image, 0, len(entries))
	for _, e := range entries {
		if !e.complete() {
			return nil
		}
		images = append(images, Image{
			ServiceName: *e.ServiceName,
			BucketName:  *e.BucketName,
			Key:         *e.Key,
			Filename:    *e.Filename,
			ContentType: *e.ContentType,
			Size:        *e.Size,
		})
	}
	return images
}

// ImageURLs maps images to their inner routes.
func ImageURLs(images []Image) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL())
	}
	return urls
}

// FirstImageURL returns the display image of a list, or "" when empty.
func FirstImageURL(images []Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL()
}
