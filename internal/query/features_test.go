package query

import (
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/isengartz/SinExpressBlogApi/internal/apperrors"
)

// blogColumns mirrors a typical field-to-column map for a listable model.
var blogColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"price":     "price",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type shapedBlog struct {
	ID    string
	Title string
}

func (shapedBlog) TableName() string { return "blogs" }

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return db
}

// buildSQL runs the pipeline in dry-run mode and returns the SQL with
// parameters inlined.
func buildSQL(t *testing.T, values url.Values, always []string, excluded ...string) string {
	t.Helper()
	db := newDryRunDB(t)

	features := New(values, blogColumns, always...)
	shaped, err := features.Apply(db.Model(&shapedBlog{}), excluded...)
	require.NoError(t, err)

	var rows []shapedBlog
	tx := shaped.Find(&rows)
	require.NoError(t, tx.Error)
	return tx.Dialector.Explain(tx.Statement.SQL.String(), tx.Statement.Vars...)
}

func TestFeatures_Apply_RangeSortPaginate(t *testing.T) {
	values := url.Values{
		"price[gte]": {"10"},
		"sort":       {"-createdAt"},
		"page":       {"2"},
		"limit":      {"5"},
	}

	sql := buildSQL(t, values, nil)

	assert.Contains(t, sql, "price >= '10'")
	assert.Contains(t, sql, "ORDER BY created_at DESC")
	assert.Contains(t, sql, "LIMIT 5")
	assert.Contains(t, sql, "OFFSET 5")
}

func TestFeatures_Apply_Defaults(t *testing.T) {
	sql := buildSQL(t, url.Values{}, nil)

	assert.Contains(t, sql, "ORDER BY created_at DESC")
	assert.Contains(t, sql, "LIMIT 20")
	assert.NotContains(t, sql, "OFFSET")

	// default projection selects every mapped column and nothing else
	selectPart := sql[:strings.Index(sql, " FROM ")]
	assert.Contains(t, selectPart, "title")
	assert.Contains(t, selectPart, "created_at")
	assert.NotContains(t, selectPart, "deleted_at")
	assert.NotContains(t, selectPart, "*")
}

func TestFeatures_Apply_Equality(t *testing.T) {
	sql := buildSQL(t, url.Values{"title": {"hello"}}, nil)
	assert.Contains(t, sql, "title = 'hello'")
}

func TestFeatures_Apply_ExcludedKeys(t *testing.T) {
	sql := buildSQL(t, url.Values{"title": {"hello"}}, nil, "title")
	assert.NotContains(t, sql, "title = 'hello'")
}

func TestFeatures_Apply_FieldProjection(t *testing.T) {
	sql := buildSQL(t, url.Values{"fields": {"title,price"}}, []string{"id"})

	selectPart := sql[:strings.Index(sql, " FROM ")]
	assert.Contains(t, selectPart, "title")
	assert.Contains(t, selectPart, "price")
	// fields named in always survive any projection
	assert.Contains(t, selectPart, "id")
	assert.NotContains(t, selectPart, "updated_at")
}

func TestFeatures_Apply_MultiSort(t *testing.T) {
	sql := buildSQL(t, url.Values{"sort": {"price,-createdAt"}}, nil)
	assert.Contains(t, sql, "ORDER BY price,created_at DESC")
}

func TestFeatures_Apply_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{"unknown filter field", url.Values{"secret": {"1"}}},
		{"unknown operator", url.Values{"price[like]": {"10"}}},
		{"unknown sort field", url.Values{"sort": {"secret"}}},
		{"unknown projection field", url.Values{"fields": {"secret"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newDryRunDB(t)
			_, err := New(tt.values, blogColumns).Apply(db.Model(&shapedBlog{}))
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		})
	}
}

func TestFeatures_Paginate_MalformedFallsBack(t *testing.T) {
	values := url.Values{"page": {"abc"}, "limit": {"-3"}}
	sql := buildSQL(t, values, nil)

	assert.Contains(t, sql, "LIMIT 20")
	assert.NotContains(t, sql, "OFFSET")
}

func TestSplitOperator(t *testing.T) {
	tests := []struct {
		key   string
		field string
		op    string
	}{
		{"price[gte]", "price", "gte"},
		{"price[lt]", "price", "lt"},
		{"title", "title", ""},
		{"weird[", "weird[", ""},
	}

	for _, tt := range tests {
		field, op := splitOperator(tt.key)
		assert.Equal(t, tt.field, field, tt.key)
		assert.Equal(t, tt.op, op, tt.key)
	}
}
