// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gradstats/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(types.LoadConfig{
		DatabasePath: filepath.Join(t.TempDir(), "gradstats.db"),
		CycleYear:    2026,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func writeJSONL(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), LLMPayloadFile)
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func strPtr(s string) *string { return &s }

func TestLoadIsIdempotent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	path := writeJSONL(t,
		`{"url":"u1","program":"p1","comments":"c1","status":"Accepted","date_added":"2026-01-15"}`,
		`{"url":"u2","program":"p2","comments":"c2","status":"Rejected"}`,
	)

	first, err := store.Load(ctx, io.Discard, path)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Read)
	assert.Equal(t, 2, first.Inserted)

	second, err := store.Load(ctx, io.Discard, path)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Read)
	assert.Equal(t, 0, second.Inserted, "second load of identical input must insert nothing")

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLoadMergesLLMFields(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	// The extracted record arrives first, via the pull path.
	inserted, err := store.InsertNormalized(ctx, []types.NormalizedRecord{{
		URL:      strPtr("u1"),
		Program:  strPtr("p1"),
		Comments: strPtr("c1"),
		Status:   strPtr("Accepted"),
		Term:     strPtr("Fall 2026"),
	}})
	require.NoError(t, err)
	require.Equal(t, 1, inserted)

	path := writeJSONL(t,
		`{"url":"u1","program":"p1","comments":"c1","llm-generated-university":"X","llm-generated-program":"Computer Science"}`,
	)
	summary, err := store.Load(ctx, io.Discard, path)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Inserted)
	assert.Equal(t, 1, summary.Merged)

	var uni, prog, status, term string
	err = store.db.QueryRow(`
		SELECT llm_generated_university, llm_generated_program, status, term
		FROM applicants WHERE url = 'u1'`).Scan(&uni, &prog, &status, &term)
	require.NoError(t, err)
	assert.Equal(t, "X", uni)
	assert.Equal(t, "Computer Science", prog)
	// Extracted fields stay untouched once persisted.
	assert.Equal(t, "Accepted", status)
	assert.Equal(t, "Fall 2026", term)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLoadNeverErasesLLMFieldsWithEmpty(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	path := writeJSONL(t,
		`{"url":"u1","program":"p1","comments":"c1","llm-generated-university":"X"}`,
	)
	_, err := store.Load(ctx, io.Discard, path)
	require.NoError(t, err)

	// A later pull carries the same key with an empty university.
	emptyPath := writeJSONL(t,
		`{"url":"u1","program":"p1","comments":"c1","llm-generated-university":""}`,
	)
	_, err = store.Load(ctx, io.Discard, emptyPath)
	require.NoError(t, err)

	var uni string
	err = store.db.QueryRow(`SELECT llm_generated_university FROM applicants WHERE url = 'u1'`).Scan(&uni)
	require.NoError(t, err)
	assert.Equal(t, "X", uni)
}

func TestLoadAcceptsUnderscoreKeySpelling(t *testing.T) {
	store := testStore(t)

	path := writeJSONL(t,
		`{"url":"u1","program":"p1","comments":"c1","llm_generated_university":"Stanford University","llm_generated_program":"Statistics"}`,
	)
	_, err := store.Load(context.Background(), io.Discard, path)
	require.NoError(t, err)

	var uni, prog string
	err = store.db.QueryRow(`
		SELECT llm_generated_university, llm_generated_program
		FROM applicants WHERE url = 'u1'`).Scan(&uni, &prog)
	require.NoError(t, err)
	assert.Equal(t, "Stanford University", uni)
	assert.Equal(t, "Statistics", prog)
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	store := testStore(t)

	path := writeJSONL(t,
		`{"url":"u1","program":"p1","comments":"c1"}`,
		`{not json at all`,
		`{"url":"u2","program":"p2","comments":"c2"}`,
	)
	summary, err := store.Load(context.Background(), io.Discard, path)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Read)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.Malformed)
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	store := testStore(t)

	_, err := store.Load(context.Background(), io.Discard, filepath.Join(t.TempDir(), "nope.jsonl"))
	require.Error(t, err)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "no partial load on fatal error")
}

func TestLoadReextractsFields(t *testing.T) {
	store := testStore(t)

	path := writeJSONL(t,
		`{"url":"u1","program":"MIT - PhD Computer Science","comments":"GPA 3.95 GRE Quant 170 International Fall 2026","status":"Accepted","masters_or_phd":"PhD"}`,
	)
	_, err := store.Load(context.Background(), io.Discard, path)
	require.NoError(t, err)

	var term, usIntl, degree string
	var gpa, gre float64
	err = store.db.QueryRow(`
		SELECT term, us_or_international, degree, gpa, gre
		FROM applicants WHERE url = 'u1'`).Scan(&term, &usIntl, &degree, &gpa, &gre)
	require.NoError(t, err)
	assert.Equal(t, "Fall 2026", term)
	assert.Equal(t, "International", usIntl)
	assert.Equal(t, "PhD", degree)
	assert.Equal(t, 3.95, gpa)
	assert.Equal(t, 170.0, gre)
}

func TestLoadTermFallbackFromCycleYear(t *testing.T) {
	store := testStore(t)

	path := writeJSONL(t,
		`{"url":"u1","program":"p1","comments":"no season mentioned","date_added":"2026-03-02"}`,
		`{"url":"u2","program":"p2","comments":"no season either","date_added":"2024-03-02"}`,
	)
	_, err := store.Load(context.Background(), io.Discard, path)
	require.NoError(t, err)

	var term *string
	err = store.db.QueryRow(`SELECT term FROM applicants WHERE url = 'u1'`).Scan(&term)
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, "Fall 2026", *term)

	err = store.db.QueryRow(`SELECT term FROM applicants WHERE url = 'u2'`).Scan(&term)
	require.NoError(t, err)
	assert.Nil(t, term, "fallback only applies to the configured cycle year")
}

func TestEnsureIndexRemovesPreexistingDuplicates(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	// Simulate a table populated before the unique index existed.
	_, err := store.db.Exec(`DROP INDEX applicants_sig_unique`)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = store.db.Exec(`
			INSERT INTO applicants (url, program, comments) VALUES ('u1', 'p1', 'c1')`)
		require.NoError(t, err)
	}

	require.NoError(t, store.EnsureIndex(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var keep int
	err = store.db.QueryRow(`SELECT MIN(p_id) FROM applicants`).Scan(&keep)
	require.NoError(t, err)
	var stored int
	err = store.db.QueryRow(`SELECT p_id FROM applicants WHERE url = 'u1'`).Scan(&stored)
	require.NoError(t, err)
	assert.Equal(t, keep, stored, "lowest-identity row survives deduplication")
}
