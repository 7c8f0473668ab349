package guide

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"poe2guide/internal/normalize"
	"poe2guide/pkg/models"
)

// Modes mirror the UI's checklist filter: speedrun keeps only required items,
// full keeps required and optional.
var modeFilters = map[string]map[models.Classification]bool{
	"speedrun": {models.ClassificationRequired: true},
	"full":     {models.ClassificationRequired: true, models.ClassificationOptional: true},
}

type Handler struct {
	Ctx          *normalize.Context
	GameInfoPath string

	chapters []models.NormalizedChapter
}

// NewHandler normalizes the document once; every request serves from the
// cached immutable result.
func NewHandler(ctx *normalize.Context, gameInfoPath string) *Handler {
	return &Handler{
		Ctx:          ctx,
		GameInfoPath: gameInfoPath,
		chapters:     ctx.NormalizeChapters(),
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/chapters", h.chaptersHandler) // GET /guide/chapters?mode=speedrun
	rg.GET("/sections/:id", h.sectionByID)
	rg.GET("/meta", h.meta)
	rg.GET("/diagnostics", h.diagnostics)
	rg.GET("/gameinfo", h.gameInfo)
}

func (h *Handler) chaptersHandler(c *gin.Context) {
	mode := strings.TrimSpace(c.Query("mode"))
	if mode == "" {
		c.JSON(http.StatusOK, gin.H{"chapters": h.chapters})
		return
	}

	allowed, ok := modeFilters[mode]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be one of: speedrun, full"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapters": filterChapters(h.chapters, allowed)})
}

func (h *Handler) sectionByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	for _, chapter := range h.chapters {
		for _, section := range chapter.Sections {
			if section.ID == id {
				c.JSON(http.StatusOK, section)
				return
			}
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func (h *Handler) meta(c *gin.Context) {
	sections, items, required := 0, 0, 0
	for _, chapter := range h.chapters {
		sections += len(chapter.Sections)
		for _, section := range chapter.Sections {
			items += len(section.Checklist)
			for _, item := range section.Checklist {
				if item.Classification == models.ClassificationRequired {
					required++
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"revision":       h.Ctx.Revision(),
		"chapters":       len(h.chapters),
		"sections":       sections,
		"items":          items,
		"required_items": required,
	})
}

// diagnostics runs the advisory validator over the raw document. Meant for
// data authors; nothing here gates the guide itself.
func (h *Handler) diagnostics(c *gin.Context) {
	diags := normalize.Validate(h.Ctx.Document())
	c.JSON(http.StatusOK, gin.H{
		"count":       len(diags),
		"diagnostics": diags,
	})
}

func (h *Handler) gameInfo(c *gin.Context) {
	raw, err := os.ReadFile(h.GameInfoPath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game info not generated yet"})
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// filterChapters copies the chapter list keeping only checklist items the
// mode allows. The cached chapters are never mutated.
func filterChapters(chapters []models.NormalizedChapter, allowed map[models.Classification]bool) []models.NormalizedChapter {
	out := make([]models.NormalizedChapter, 0, len(chapters))
	for _, chapter := range chapters {
		filtered := chapter
		filtered.Sections = make([]models.NormalizedSection, 0, len(chapter.Sections))
		for _, section := range chapter.Sections {
			fs := section
			fs.Checklist = make([]models.NormalizedChecklistItem, 0, len(section.Checklist))
			for _, item := range section.Checklist {
				if allowed[item.Classification] {
					fs.Checklist = append(fs.Checklist, item)
				}
			}
			filtered.Sections = append(filtered.Sections, fs)
		}
		out = append(out, filtered)
	}
	return out
}
