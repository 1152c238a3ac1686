package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_console/internal/models"
)

type failingTokens struct{}

func (failingTokens) Token(context.Context) (string, error) {
	return "", errors.New("session store down")
}

func newTestClient(t *testing.T, register func(r *gin.Engine), tokens TokenSource) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/api/", Tokens: tokens})
}

func TestList_SendsQueryAndCredential(t *testing.T) {
	var gotQuery map[string][]string
	var gotAuth string
	c := newTestClient(t, func(r *gin.Engine) {
		r.GET("/api/products", func(ctx *gin.Context) {
			gotQuery = ctx.Request.URL.Query()
			gotAuth = ctx.GetHeader("Authorization")
			ctx.JSON(http.StatusOK, gin.H{
				"data": []gin.H{
					{"_id": "p1", "name": "Cake", "category": "cakes", "price": 12.5, "stock": 5},
					{"_id": "p2", "name": "Juice", "category": "drinks", "price": 3, "stock": 40},
				},
				"pagination": gin.H{"currentPage": 2, "totalPages": 3, "totalItems": 25, "itemsPerPage": 10},
			})
		})
	}, StaticToken("secret"))

	page, err := c.List(context.Background(), 2, 10, "cake")
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"10"}, gotQuery["limit"])
	assert.Equal(t, []string{"cake"}, gotQuery["search"])
	assert.Equal(t, "Bearer secret", gotAuth)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "p1", page.Items[0].ID)
	assert.Equal(t, models.CategoryDrinks, page.Items[1].Category)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.True(t, page.Pagination.HasNextPage)
	assert.True(t, page.Pagination.HasPrevPage)
}

func TestList_OmitsEmptySearchAndCredential(t *testing.T) {
	var hasSearch bool
	var gotAuth string
	c := newTestClient(t, func(r *gin.Engine) {
		r.GET("/api/products", func(ctx *gin.Context) {
			_, hasSearch = ctx.GetQuery("search")
			gotAuth = ctx.GetHeader("Authorization")
			ctx.JSON(http.StatusOK, gin.H{"data": []gin.H{}})
		})
	}, StaticToken(""))

	_, err := c.List(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.False(t, hasSearch)
	assert.Empty(t, gotAuth)
}

func TestList_MissingPaginationUsesEmptyDescriptor(t *testing.T) {
	c := newTestClient(t, func(r *gin.Engine) {
		r.GET("/api/products", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"data": []gin.H{{"_id": "p1", "name": "Cake"}}})
		})
	}, nil)

	page, err := c.List(context.Background(), 1, 5, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, models.EmptyPagination(5), page.Pagination)
}

func TestList_MalformedBodyFallsBackToDefaults(t *testing.T) {
	c := newTestClient(t, func(r *gin.Engine) {
		r.GET("/api/products", func(ctx *gin.Context) {
			ctx.String(http.StatusOK, "<html>maintenance</html>")
		})
	}, nil)

	page, err := c.List(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasNextPage)
}

func TestCreate_RenamesImageAndUnwrapsEnvelope(t *testing.T) {
	var sent map[string]any
	c := newTestClient(t, func(r *gin.Engine) {
		r.POST("/api/products", func(ctx *gin.Context) {
			raw, _ := io.ReadAll(ctx.Request.Body)
			_ = json.Unmarshal(raw, &sent)
			ctx.JSON(http.StatusCreated, gin.H{"data": gin.H{
				"_id": "p1", "name": "Cake", "category": "cakes", "price": 12.5, "stock": 5,
				"imageUrl": "https://cdn.example/cake.png",
			}})
		})
	}, nil)

	p, err := c.Create(context.Background(), models.ProductDraft{
		Name:     "Cake",
		Category: models.CategoryCakes,
		Price:    12.5,
		Stock:    5,
		Image:    "https://cdn.example/cake.png",
		ImageURL: "https://cdn.example/old.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/cake.png", sent["imageUrl"])
	assert.NotContains(t, sent, "image")
	assert.Equal(t, "Cake", sent["name"])
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "https://cdn.example/cake.png", p.ImageURL)
}

func TestCreate_OmitsImageWhenAbsent(t *testing.T) {
	var sent map[string]any
	c := newTestClient(t, func(r *gin.Engine) {
		r.POST("/api/products", func(ctx *gin.Context) {
			_ = ctx.BindJSON(&sent)
			ctx.JSON(http.StatusCreated, gin.H{"_id": "p9", "name": "Toy"})
		})
	}, nil)

	p, err := c.Create(context.Background(), models.ProductDraft{Name: "Toy", Category: models.CategoryToys})
	require.NoError(t, err)
	assert.NotContains(t, sent, "imageUrl")
	assert.NotContains(t, sent, "image")
	assert.Equal(t, "p9", p.ID)
}

func TestUpdate_AcceptsUnwrappedProduct(t *testing.T) {
	var gotID string
	c := newTestClient(t, func(r *gin.Engine) {
		r.PUT("/api/products/:id", func(ctx *gin.Context) {
			gotID = ctx.Param("id")
			ctx.JSON(http.StatusOK, gin.H{"_id": gotID, "name": "Bigger Cake", "price": 20})
		})
	}, nil)

	p, err := c.Update(context.Background(), "p1", models.ProductDraft{Name: "Bigger Cake", Price: 20})
	require.NoError(t, err)
	assert.Equal(t, "p1", gotID)
	assert.Equal(t, "Bigger Cake", p.Name)
	assert.Equal(t, 20.0, p.Price)
}

func TestUpdate_UndecodableBodyIsShapeError(t *testing.T) {
	c := newTestClient(t, func(r *gin.Engine) {
		r.PUT("/api/products/:id", func(ctx *gin.Context) {
			ctx.String(http.StatusOK, "ok")
		})
	}, nil)

	_, err := c.Update(context.Background(), "p1", models.ProductDraft{Name: "x"})
	var rse *RemoteServiceError
	require.ErrorAs(t, err, &rse)
	assert.Equal(t, KindShape, rse.Kind)
}

func TestWrite_EmptySuccessBodyUsesSubmittedFields(t *testing.T) {
	c := newTestClient(t, func(r *gin.Engine) {
		r.POST("/api/products", func(ctx *gin.Context) {
			ctx.Status(http.StatusCreated)
		})
		r.PUT("/api/products/:id", func(ctx *gin.Context) {
			ctx.Status(http.StatusNoContent)
		})
	}, nil)
	draft := models.ProductDraft{Name: "Cake", Category: models.CategoryCakes, Price: 12.5, Stock: 5, Image: "cake.png"}

	created, err := c.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.Empty(t, created.ID)
	assert.Equal(t, "Cake", created.Name)
	assert.Equal(t, "cake.png", created.ImageURL)

	updated, err := c.Update(context.Background(), "p1", draft)
	require.NoError(t, err)
	assert.Equal(t, "p1", updated.ID)
	assert.Equal(t, 12.5, updated.Price)
}

func TestCreate_UnencodableDraftIsRemoteServiceError(t *testing.T) {
	var called bool
	c := newTestClient(t, func(r *gin.Engine) {
		r.POST("/api/products", func(ctx *gin.Context) {
			called = true
			ctx.Status(http.StatusCreated)
		})
	}, nil)

	_, err := c.Create(context.Background(), models.ProductDraft{Name: "Cake", Price: math.NaN()})
	var rse *RemoteServiceError
	require.ErrorAs(t, err, &rse)
	assert.Equal(t, KindTransport, rse.Kind)
	assert.False(t, called)
}

func TestDelete_ServerErrorCarriesMessage(t *testing.T) {
	c := newTestClient(t, func(r *gin.Engine) {
		r.DELETE("/api/products/:id", func(ctx *gin.Context) {
			ctx.JSON(http.StatusForbidden, gin.H{"message": "Admin privileges required"})
		})
	}, nil)

	err := c.Delete(context.Background(), "p1")
	var rse *RemoteServiceError
	require.ErrorAs(t, err, &rse)
	assert.Equal(t, KindServer, rse.Kind)
	assert.Equal(t, http.StatusForbidden, rse.StatusCode)
	assert.Equal(t, "Admin privileges required", rse.Error())
	assert.Equal(t, "Admin privileges required", ServerMessage(err))
}

func TestDelete_ServerErrorWithoutMessage(t *testing.T) {
	c := newTestClient(t, func(r *gin.Engine) {
		r.DELETE("/api/products/:id", func(ctx *gin.Context) {
			ctx.Status(http.StatusInternalServerError)
		})
	}, nil)

	err := c.Delete(context.Background(), "p1")
	require.Error(t, err)
	assert.Empty(t, ServerMessage(err))
	assert.Contains(t, err.Error(), "500")
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(Config{BaseURL: srv.URL})

	_, err := c.List(context.Background(), 1, 10, "")
	var rse *RemoteServiceError
	require.ErrorAs(t, err, &rse)
	assert.Equal(t, KindTransport, rse.Kind)
	assert.Empty(t, rse.Message)
}

func TestTokenSourceFailureSendsWithoutCredential(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(r *gin.Engine) {
		r.DELETE("/api/products/:id", func(ctx *gin.Context) {
			gotAuth = ctx.GetHeader("Authorization")
			ctx.Status(http.StatusNoContent)
		})
	}, failingTokens{})

	require.NoError(t, c.Delete(context.Background(), "p1"))
	assert.Empty(t, gotAuth)
}
