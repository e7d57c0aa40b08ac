package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ajg/form"
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"github.com/SandySeal/virtualFitting/internal/catalog"
	"github.com/SandySeal/virtualFitting/internal/fitting"
	"github.com/SandySeal/virtualFitting/internal/imaging"
)

// allowedPhotoExts lists the upload extensions offered by the file picker.
// The decoder is the real gate; this only rejects obvious junk early.
var allowedPhotoExts = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// shareQRSize is the pixel size of the share QR code.
const shareQRSize = 256

// pageData feeds the fitting page template.
type pageData struct {
	Message  string
	PhotoID  string
	Items    []catalog.Item
	Selected string
	Scale    float64
	OffsetX  int
	OffsetY  int
	MinScale float64
	MaxScale float64
	HalfW    int
	HalfH    int
	Query    string
}

// decodeRequest decodes the adjustment controls from the query string.
func (server *Server) decodeRequest(r *http.Request) (fitting.Request, error) {
	var req fitting.Request

	dec := form.NewDecoder(strings.NewReader(r.URL.RawQuery))
	dec.IgnoreUnknownKeys(true)
	if err := dec.Decode(&req); err != nil {
		return fitting.Request{}, fmt.Errorf("failed to decode controls: %w", err)
	}
	return req, nil
}

// buildQuery re-encodes a request as a canonical query string for the
// preview, download, and share URLs.
func buildQuery(req fitting.Request) string {
	v := url.Values{}
	v.Set("photo", req.PhotoID)
	v.Set("item", req.Item)
	v.Set("scale", strconv.FormatFloat(req.Scale, 'f', -1, 64))
	v.Set("dx", strconv.Itoa(req.OffsetX))
	v.Set("dy", strconv.Itoa(req.OffsetY))
	return v.Encode()
}

func (server *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	req, err := server.decodeRequest(r)
	if err != nil {
		req = fitting.Request{}
	}

	data := pageData{
		MinScale: server.minScale,
		MaxScale: server.maxScale,
		Items:    server.room.Catalog().Items(),
	}

	if req.PhotoID == "" && server.room.HasAvatar() {
		req.PhotoID = fitting.AvatarID
	}

	if req.PhotoID != "" {
		dims, err := server.room.BaseDimensions(req.PhotoID)
		if err != nil {
			server.log.Warn("photo unavailable", "photo", req.PhotoID, "err", err)
			data.Message = "That photo could not be loaded. Please upload a new one."
			req.PhotoID = ""
		} else {
			data.HalfW = dims.Width / 2
			data.HalfH = dims.Height / 2
		}
	}

	if len(data.Items) == 0 {
		data.Message = "No clothing items found. Please add items to clothing_data.csv."
	} else if req.Item == "" {
		req.Item = data.Items[0].Name
	} else if _, ok := server.room.Catalog().Lookup(req.Item); !ok {
		data.Message = "That clothing item is no longer available."
		req.Item = data.Items[0].Name
	}

	if req.Scale == 0 {
		req.Scale = 1.0
	}

	data.PhotoID = req.PhotoID
	data.Selected = req.Item
	data.Scale = req.Scale
	data.OffsetX = req.OffsetX
	data.OffsetY = req.OffsetY
	data.Query = buildQuery(req)

	w.Header().Set("Content-Type", "text/html")
	server.writeTemplate(Index, data, w)
}

func (server *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, server.maxUploadBytes)

	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "no photo provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !allowedPhotoType(header.Filename) {
		http.Error(w, fmt.Sprintf("file type not allowed; use one of %s",
			strings.Join(allowedPhotoExts, ", ")), http.StatusBadRequest)
		return
	}

	id, err := server.room.SavePhoto(file)
	if err != nil {
		server.log.Warn("upload rejected", "filename", header.Filename, "err", err)
		http.Error(w, "that file could not be read as an image", http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/?photo="+id, http.StatusSeeOther)
}

func allowedPhotoType(filename string) bool {
	ext := filepath.Ext(filename)
	for _, allowed := range allowedPhotoExts {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

// renderComposite runs the render for look/download/palette requests and
// handles the error response. ok is false when a response was already sent.
func (server *Server) renderComposite(w http.ResponseWriter, r *http.Request) (data []byte, ok bool) {
	req, err := server.decodeRequest(r)
	if err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return nil, false
	}

	img, err := server.room.Render(req)
	if err != nil {
		server.renderFailure(w, err)
		return nil, false
	}

	pngData, err := imaging.PNGBytes(img)
	if err != nil {
		server.writeErr(err, w)
		return nil, false
	}
	return pngData, true
}

// renderFailure reports a skipped render as a non-fatal user-facing message.
func (server *Server) renderFailure(w http.ResponseWriter, err error) {
	server.log.Warn("render skipped", "err", err)

	switch {
	case errors.Is(err, fitting.ErrPhotoNotFound), errors.Is(err, fitting.ErrBadPhotoID):
		http.Error(w, "photo not found; please upload a new one", http.StatusNotFound)
	case errors.Is(err, catalog.ErrUnknownItem):
		http.Error(w, "unknown clothing item", http.StatusNotFound)
	default:
		http.Error(w, "the selected images could not be loaded", http.StatusUnprocessableEntity)
	}
}

func (server *Server) handleLook(w http.ResponseWriter, r *http.Request) {
	data, ok := server.renderComposite(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (server *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	data, ok := server.renderComposite(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="virtual_look.png"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (server *Server) handleAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	if err := server.room.SaveAvatar(r.PostFormValue("photo")); err != nil {
		server.renderFailure(w, err)
		return
	}

	http.Redirect(w, r, "/?photo="+fitting.AvatarID, http.StatusSeeOther)
}

// catalogEntry is one item in the catalog JSON listing.
type catalogEntry struct {
	Name      string `json:"name"`
	ImageFile string `json:"image_file"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

func (server *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	items := server.room.Catalog().Items()
	entries := make([]catalogEntry, 0, len(items))

	for _, item := range items {
		entry := catalogEntry{Name: item.Name, ImageFile: item.ImageFile}

		img, err := server.room.ItemImage(item.Name)
		if err != nil {
			// Item stays listed; only its preview is missing.
			server.log.Warn("catalog image unavailable", "item", item.Name, "err", err)
		} else if uri, err := imaging.ThumbnailDataURI(img, server.thumbHeight); err == nil {
			entry.Thumbnail = uri
		}

		entries = append(entries, entry)
	}

	writeJSON(w, map[string]interface{}{"items": entries})
}

func (server *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	req, err := server.decodeRequest(r)
	if err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	img, err := server.room.Render(req)
	if err != nil {
		server.renderFailure(w, err)
		return
	}

	writeJSON(w, imaging.Palette(img, 6))
}

func (server *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	req, err := server.decodeRequest(r)
	if err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	// Validate the references before minting a QR code for them.
	if _, err := server.room.PhotoPath(req.PhotoID); err != nil {
		server.renderFailure(w, err)
		return
	}
	if _, ok := server.room.Catalog().Lookup(req.Item); !ok {
		server.renderFailure(w, fmt.Errorf("%w: %q", catalog.ErrUnknownItem, req.Item))
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	lookURL := fmt.Sprintf("%s://%s/look.png?%s", scheme, r.Host, buildQuery(req))

	code, err := qr.Encode(lookURL, qr.M, qr.Auto)
	if err != nil {
		server.writeErr(fmt.Errorf("failed to encode share QR code: %w", err), w)
		return
	}
	code, err = barcode.Scale(code, shareQRSize, shareQRSize)
	if err != nil {
		server.writeErr(fmt.Errorf("failed to scale share QR code: %w", err), w)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, code); err != nil {
		server.log.Error("failed to write share QR code", "err", err)
	}
}

func (server *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/photos/")
	id := strings.TrimSuffix(name, ".png")

	path, err := server.room.PhotoPath(id)
	if err != nil {
		server.serveNotFound(w)
		return
	}

	server.serveFile(path, "image/png", w)
}

func (server *Server) handleClothing(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/clothing/")

	for _, item := range server.room.Catalog().Items() {
		if item.ImageFile != name {
			continue
		}

		path, err := server.room.Catalog().ImagePath(item.Name)
		if err != nil {
			server.serveNotFound(w)
			return
		}
		server.serveFile(path, contentTypeByExt(path), w)
		return
	}

	server.serveNotFound(w)
}

func contentTypeByExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
