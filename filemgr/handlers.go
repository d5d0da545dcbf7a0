package filemgr

import (
	"log"
	"net/http"

	"agrimart/utils"

	"github.com/julienschmidt/httprouter"
)

// UploadImage handles POST /api/images/:kind (multipart field "image").
// Responds with the stored URI and its thumbnail.
func UploadImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	kind := ps.ByName("kind")
	if !ValidKind(kind) {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown image kind")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file required")
		return
	}
	defer file.Close()

	orig, thumb, err := SaveImageWithThumb(file, header, Kind(kind))
	if err != nil {
		log.Println("UploadImage error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Could not store image")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"image": orig,
		"thumb": thumb,
	})
}
