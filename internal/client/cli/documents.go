package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
)

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

func (a *App) ListDocuments(ctx context.Context, args []string) {
	if len(args) != 1 {
		printf(a.out, "Usage: docs <application-id>\n")
		return
	}
	appID, ok := parseID(args[0])
	if !ok {
		printf(a.out, "Invalid id %q\n", args[0])
		return
	}

	docs, err := a.docService.List(ctx, appID)
	if err != nil {
		printf(a.out, "List failed: %v\n", err)
		return
	}
	if len(docs) == 0 {
		printf(a.out, "No documents.\n")
		return
	}
	for _, d := range docs {
		printf(a.out, "%4d  %-30s %8d bytes\n", d.ID, d.FileName, d.FileSize)
	}
}

func (a *App) UploadDocument(ctx context.Context, args []string) {
	if len(args) != 2 {
		printf(a.out, "Usage: upload <application-id> <file>\n")
		return
	}
	appID, ok := parseID(args[0])
	if !ok {
		printf(a.out, "Invalid id %q\n", args[0])
		return
	}

	content, err := os.ReadFile(args[1])
	if err != nil {
		printf(a.out, "Cannot read %s: %v\n", args[1], err)
		return
	}

	doc, err := a.docService.Upload(ctx, appID, filepath.Base(args[1]), content)
	if err != nil {
		printf(a.out, "Upload failed: %v\n", err)
		return
	}
	printf(a.out, "Uploaded %s as document #%d\n", doc.FileName, doc.ID)
}

func (a *App) DownloadDocument(ctx context.Context, args []string) {
	if len(args) != 3 {
		printf(a.out, "Usage: download <application-id> <document-id> <file>\n")
		return
	}
	appID, ok := parseID(args[0])
	if !ok {
		printf(a.out, "Invalid id %q\n", args[0])
		return
	}
	docID, ok := parseID(args[1])
	if !ok {
		printf(a.out, "Invalid id %q\n", args[1])
		return
	}

	content, err := a.docService.Download(ctx, appID, docID)
	if err != nil {
		printf(a.out, "Download failed: %v\n", err)
		return
	}
	if err := os.WriteFile(args[2], content, 0o600); err != nil {
		printf(a.out, "Cannot write %s: %v\n", args[2], err)
		return
	}
	printf(a.out, "Saved %d bytes to %s\n", len(content), args[2])
}
