package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleModels(w http.ResponseWriter, r *http.Request) {
	result := ModelList{
		Object: "list",
	}

	for _, m := range h.Models() {
		result.Models = append(result.Models, Model{
			ID:     m.ID,
			Object: "model",

			OwnedBy: "flux-image-gen",
		})
	}

	writeJson(w, result)
}

func (h *Handler) handleModel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	for _, m := range h.Models() {
		if m.ID != id {
			continue
		}

		writeJson(w, Model{
			ID:     m.ID,
			Object: "model",

			OwnedBy: "flux-image-gen",
		})

		return
	}

	writeError(w, http.StatusNotFound, errors.New("unknown model: "+id))
}
