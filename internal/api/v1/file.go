package v1

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/book-manager/internal/config"
	"github.com/Xunop/book-manager/internal/gateway"
	"github.com/Xunop/book-manager/internal/http/flash"
	"github.com/Xunop/book-manager/internal/http/request"
	"github.com/Xunop/book-manager/internal/http/response"
	"github.com/Xunop/book-manager/internal/log"
	"github.com/Xunop/book-manager/internal/mirror"
)

type exportPage struct {
	basePage
	BooksCount int
}

func (h *Handler) exportBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method == http.MethodPost {
		format, err := gateway.ParseFormat(r.PostFormValue("file_type"))
		var download *gateway.Download
		if err == nil {
			download, err = h.gateway.Export(ctx, format)
		}
		if err != nil {
			log.Error("Export failed", zap.String("file_type", r.PostFormValue("file_type")), zap.Error(err))
			flash.Error(w, "Ошибка: "+err.Error())
			response.Redirect(w, r, "/export/")
			return
		}
		response.Attachment(w, r, download.Name, download.ContentType, download.Body)
		return
	}

	count, err := h.books.Count(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "export", exportPage{
		basePage:   h.base(w, r, "export_books", "Экспорт"),
		BooksCount: count,
	})
}

type uploadPage struct {
	basePage
	MaxUploadSize int64
}

func (h *Handler) uploadFile(w http.ResponseWriter, r *http.Request) {
	maxSize := config.Opts.MaxUploadSize << 20
	if r.Method != http.MethodPost {
		h.render(w, r, "upload", uploadPage{
			basePage:      h.base(w, r, "upload_file", "Импорт"),
			MaxUploadSize: maxSize,
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		log.Error("Max upload size exceeded", zap.Int64("size", r.ContentLength), zap.Error(err))
		flash.Error(w, "Ошибка: файл слишком большой или повреждён")
		response.Redirect(w, r, "/upload/")
		return
	}

	format, err := gateway.ParseFormat(r.PostFormValue("file_type"))
	if err != nil {
		flash.Error(w, "Ошибка: "+err.Error())
		response.Redirect(w, r, "/upload/")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		flash.Error(w, "Ошибка: выберите файл для загрузки")
		response.Redirect(w, r, "/upload/")
		return
	}
	defer file.Close()

	log.Debug("Import file", zap.String("file_name", header.Filename), zap.Int64("size", header.Size))
	imported, err := h.gateway.Import(r.Context(), file, format)
	if err != nil {
		var ierr *gateway.ImportError
		if errors.As(err, &ierr) {
			flash.Error(w, fmt.Sprintf("Ошибка в записи %d: %v. Импортировано %d книг.", ierr.Index, ierr.Err, ierr.Imported))
		} else {
			flash.Error(w, "Ошибка: "+err.Error())
		}
		response.Redirect(w, r, "/upload/")
		return
	}

	flash.Success(w, fmt.Sprintf("Импортировано %d книг!", imported))
	response.Redirect(w, r, "/upload/")
}

type fileListPage struct {
	basePage
	Files []*mirror.FileInfo
}

func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.mirror.ListFiles()
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "file_list", fileListPage{
		basePage: h.base(w, r, "file_list", "Файлы"),
		Files:    files,
	})
}

type fileViewPage struct {
	basePage
	Name    string
	Content string
}

func (h *Handler) viewFile(w http.ResponseWriter, r *http.Request) {
	name := request.RouteStringParam(r, "filename")
	content, err := h.mirror.ReadFile(name)
	if err != nil {
		if errors.Is(err, mirror.ErrFileNotFound) {
			flash.Error(w, "Файл не найден")
			response.Redirect(w, r, "/files/")
			return
		}
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "file_view", fileViewPage{
		basePage: h.base(w, r, "view_file", name),
		Name:     name,
		Content:  string(content),
	})
}
