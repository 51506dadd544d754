package handlers

import (
	"net/http"

	"github.com/ritvikra/PDFEmbedder/internal/adapter"
	"github.com/ritvikra/PDFEmbedder/internal/adapter/utils"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
)

func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	documents, err := handlerInstance.docService.GetAllDocuments(r.Context())
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, documents)
}

func SearchDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "q query parameter is required")
		return
	}
	documents, err := handlerInstance.docService.SearchDocuments(r.Context(), query)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, documents)
}

func GetDocumentsByUrlHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	url := r.URL.Query().Get("url")
	if url == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "url query parameter is required")
		return
	}
	documents, err := handlerInstance.docService.GetDocumentsByUrl(r.Context(), url)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, documents)
}

func GetDocumentsByJobHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	jobId := utils.GetChiURLParam(r, "jobId")
	documents, err := handlerInstance.docService.GetDocumentsByJobId(r.Context(), jobId)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, jobId, err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, documents)
}

func GetDocumentsByTypeHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	docType := jobModel.JobType(utils.GetChiURLParam(r, "type"))
	if !jobModel.ValidType(docType) {
		WriteErrorResponse(w, http.StatusBadRequest, "", "unknown document type")
		return
	}
	documents, err := handlerInstance.docService.GetDocumentsByType(r.Context(), docType)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, documents)
}

func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	document, err := handlerInstance.docService.GetDocumentById(r.Context(), idString)
	if err != nil {
		WriteErrorResponse(w, adapter.ToHttpStatus(err), idString, "Document not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, document)
}

func GetDocumentChunksHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	chunks, err := handlerInstance.docService.GetDocumentChunks(r.Context(), idString)
	if err != nil {
		WriteErrorResponse(w, adapter.ToHttpStatus(err), idString, "Document not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, chunks)
}

func GetDocumentPagesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	pages, err := handlerInstance.docService.GetDocumentPages(r.Context(), idString)
	if err != nil {
		WriteErrorResponse(w, adapter.ToHttpStatus(err), idString, "Document not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, pages)
}

func GetDocumentWithJobHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	joined, err := handlerInstance.docService.GetDocumentWithJob(r.Context(), idString)
	if err != nil {
		WriteErrorResponse(w, adapter.ToHttpStatus(err), idString, "Document not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, joined)
}

func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	existed, err := handlerInstance.docService.DeleteDocument(r.Context(), idString)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, idString, err.Error())
		return
	}
	if !existed {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Document not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
