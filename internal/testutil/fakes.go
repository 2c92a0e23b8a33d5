package testutil

import (
	"context"
	"fmt"
	"kitchenlog/internal/utils/storage"
	"mime/multipart"
	"strings"
	"sync"
)

const FakeBaseURL = "https://files.test/"

// FakeStorage keeps uploaded object keys in memory.
type FakeStorage struct {
	mu      sync.Mutex
	Objects map[string]string
	Deleted []string
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{Objects: map[string]string{}}
}

func (f *FakeStorage) UploadFile(_ context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	if err := storage.CheckExtension(file.Filename, allowed...); err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%s-%s", folder, fileName, file.Filename)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Objects[key] = file.Filename
	return key, nil
}

func (f *FakeStorage) CopyFile(_ context.Context, objectKey string, fileName string, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	original, ok := f.Objects[objectKey]
	if !ok {
		return "", fmt.Errorf("object %s not found", objectKey)
	}
	key := fmt.Sprintf("%s/%s-%s", folder, fileName, original)
	f.Objects[key] = original
	return key, nil
}

func (f *FakeStorage) DeleteFile(_ context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Objects, objectKey)
	f.Deleted = append(f.Deleted, objectKey)
	return nil
}

// Has reports whether an object is currently stored under key.
func (f *FakeStorage) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Objects[key]
	return ok
}

func (f *FakeStorage) GetPublicLinkKey(objectKey string) string {
	return FakeBaseURL + objectKey
}

func (f *FakeStorage) GetObjectKeyFromLink(link string) string {
	if !strings.HasPrefix(link, FakeBaseURL) {
		return ""
	}
	return strings.TrimPrefix(link, FakeBaseURL)
}

type SentMail struct {
	To      string
	Subject string
	Body    string
}

// FakeMailer records messages instead of sending them.
type FakeMailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

func (m *FakeMailer) SendMail(toEmail string, subject string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{To: toEmail, Subject: subject, Body: body})
	return nil
}

func (m *FakeMailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// FileHeader builds a multipart header for upload tests; the content is never read.
func FileHeader(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: 1}
}
