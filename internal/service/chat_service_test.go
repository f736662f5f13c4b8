package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docforge/docforge/internal/model"
)

func TestAsk_NoDocuments(t *testing.T) {
	e := newEnv(t, nil)
	answer := e.chat.Ask(context.Background(), "what is the safety procedure?")
	require.Equal(t, msgNoDocuments, answer)
}

func TestAsk_GeneralAnswer(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	_, err := e.ingest.IngestFile(ctx, "manual.txt", []byte(
		"The turbine operates at 3000 rpm under normal load. "+
			"Cooling water must circulate at all times. "+
			"The maintenance interval is six months."))
	require.NoError(t, err)

	answer := e.chat.Ask(ctx, "turbine rpm")
	require.Contains(t, answer, "Based on the uploaded documents:")
	require.Contains(t, answer, "**Information from manual.txt:**")
	require.Contains(t, answer, "3000 rpm")
	require.Contains(t, answer, answerDisclaimer)
}

func TestAsk_ProceduralAnswer(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	_, err := e.ingest.IngestFile(ctx, "startup.txt", []byte(
		"Startup procedure for the pump unit.\n"+
			"Step 1: open the inlet valve.\n"+
			"Step 2: prime the pump.\n"+
			"Background: the pump was installed in 2019.\n"))
	require.NoError(t, err)

	answer := e.chat.Ask(ctx, "how to start the pump")
	require.Contains(t, answer, "Here's what I found about 'how to start the pump':")
	require.Contains(t, answer, "**From startup.txt:**")
	require.Contains(t, answer, "- Step 1: open the inlet valve.")
	require.Contains(t, answer, "- Step 2: prime the pump.")
	require.NotContains(t, answer, "installed in 2019")
	require.Contains(t, answer, answerDisclaimer)
}

func TestAsk_CachesAnswer(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	_, err := e.ingest.IngestFile(ctx, "a.txt", []byte("The compressor pressure limit is 12 bar exactly."))
	require.NoError(t, err)

	first := e.chat.Ask(ctx, "compressor pressure")
	require.Contains(t, first, "12 bar")
	require.Equal(t, 1, e.chat.cache.Len())

	second := e.chat.Ask(ctx, "compressor pressure")
	require.Equal(t, first, second)
	require.Equal(t, 1, e.chat.cache.Len())
}

func TestAsk_FreshAnswerAfterUpdate(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	result, err := e.ingest.IngestFile(ctx, "creds.txt", []byte("The access password is alpha for every operator account."))
	require.NoError(t, err)

	first := e.chat.Ask(ctx, "access password")
	require.Contains(t, first, "alpha")

	require.NoError(t, e.documents.Update(ctx, result.DocumentID, "The access password is bravo for every operator account."))
	second := e.chat.Ask(ctx, "access password")
	require.Contains(t, second, "bravo")
	require.NotContains(t, second, "alpha")
}

func TestAsk_FreshAnswerAfterDeleteAndClearAll(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	result, err := e.ingest.IngestFile(ctx, "a.txt", []byte("The backup schedule runs nightly at two."))
	require.NoError(t, err)
	first := e.chat.Ask(ctx, "backup schedule")
	require.Contains(t, first, "nightly")

	_, _, err = e.documents.Delete(ctx, result.DocumentID)
	require.NoError(t, err)
	require.Equal(t, msgNoDocuments, e.chat.Ask(ctx, "backup schedule"))

	_, err = e.ingest.IngestFile(ctx, "b.txt", []byte("The backup schedule moved to weekly on Sundays."))
	require.NoError(t, err)
	require.Contains(t, e.chat.Ask(ctx, "backup schedule"), "weekly")

	require.NoError(t, e.documents.ClearAll(ctx))
	require.Equal(t, msgNoDocuments, e.chat.Ask(ctx, "backup schedule"))
}

func TestSynthesize_UsesTopTwoChunks(t *testing.T) {
	matches := []model.ChunkMatch{
		{Text: "The valve closes automatically when pressure drops below limits.", Meta: model.ChunkMeta{Source: "first.txt"}},
		{Text: "The sensor reports valve state every second during operation.", Meta: model.ChunkMeta{Source: "second.txt"}},
		{Text: "A third chunk about the valve that must not appear at all.", Meta: model.ChunkMeta{Source: "third.txt"}},
	}
	answer := Synthesize("valve", matches)
	require.Contains(t, answer, "**Information from first.txt:**")
	require.Contains(t, answer, "**Information from second.txt:**")
	require.NotContains(t, answer, "third.txt")
}

func TestSynthesize_SourceFallback(t *testing.T) {
	answer := Synthesize("valve", []model.ChunkMatch{
		{Text: "The valve closes automatically when the line loses pressure."},
	})
	require.Contains(t, answer, "**Information from a document:**")
}

func TestSynthesize_SentenceSelection(t *testing.T) {
	text := strings.Join([]string{
		"Short one", // under four words, skipped
		"The boiler heats water to ninety degrees",
		"Operators record readings every single shift",
		"Filters are replaced on a quarterly basis",
		"The building was painted green last year",
	}, ". ")
	answer := Synthesize("boiler temperature", []model.ChunkMatch{
		{Text: text, Meta: model.ChunkMeta{Source: "ops.txt"}},
	})
	require.NotContains(t, answer, "Short one")
	require.Contains(t, answer, "boiler heats water")
	// Capped at three sentences per chunk.
	require.NotContains(t, answer, "painted green")
}
