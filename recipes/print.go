package recipes

import (
	"bytes"
	"fmt"
	"net/http"
	"os"

	"forkful/filemgr"
	"forkful/models"
	"forkful/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

func publicBaseURL() string {
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

// PrintRecipe renders one recipe as a printable PDF card.
func (h *Handler) PrintRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	var recipe models.Recipe
	found := false
	for _, rec := range h.Recipes.Snapshot() {
		if rec.RecipeID == id {
			recipe, found = rec, true
			break
		}
	}
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 10, recipe.Title, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 11)
	if recipe.Author != "" {
		pdf.Cell(0, 7, fmt.Sprintf("By %s", recipe.Author))
		pdf.Ln(7)
	}
	meta := ""
	if recipe.TotalTime != "" {
		meta = "Time: " + recipe.TotalTime
	}
	if recipe.Servings != "" {
		if meta != "" {
			meta += "   "
		}
		meta += "Serves: " + recipe.Servings
	}
	if meta != "" {
		pdf.Cell(0, 7, meta)
		pdf.Ln(9)
	}

	if recipe.Description != "" {
		pdf.SetFont("Arial", "I", 11)
		pdf.MultiCell(0, 6, recipe.Description, "", "L", false)
		pdf.Ln(3)
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Ingredients")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, line := range recipe.Ingredients {
		pdf.MultiCell(0, 6, "- "+line, "", "L", false)
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Instructions")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for i, step := range recipe.Instructions {
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, step), "", "L", false)
		pdf.Ln(1)
	}

	// QR back to the live recipe page
	link := fmt.Sprintf("%s/recipes/%s", publicBaseURL(), recipe.RecipeID)
	if qrPNG, err := qrcode.Encode(link, qrcode.Medium, 256); err == nil {
		imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("qr", 165, 10, 30, 30, false, imageOpts, 0, "")
	}

	if img := filemgr.ResolveImageURL(recipe.ImageURL, recipe.LocalImagePath); img != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.Ln(4)
		pdf.MultiCell(0, 5, "Photo: "+img, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=recipe-"+recipe.RecipeID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ShareQR returns a QR PNG pointing at the recipe's public page.
func (h *Handler) ShareQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	found := false
	for _, rec := range h.Recipes.Snapshot() {
		if rec.RecipeID == id {
			found = true
			break
		}
	}
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	link := fmt.Sprintf("%s/recipes/%s", publicBaseURL(), id)
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
