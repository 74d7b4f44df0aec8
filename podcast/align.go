package podcast

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/podscribe/alignment"
	"github.com/kbukum/podscribe/caption"
	"github.com/kbukum/podscribe/diarization"
	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/logger"
	"github.com/kbukum/podscribe/observability"
	"github.com/kbukum/podscribe/storage"
	"github.com/kbukum/podscribe/timeline"
)

// AlignFiles labels an existing SRT transcript with a turns file and stores
// <base>.txt and <base>_diarized.txt, where base is the SRT file name
// without extension. The turns file holds either a JSON array of
// {start,end,speaker} objects or a diarization response with a segments
// array.
func (p *Processor) AlignFiles(ctx context.Context, srtPath, turnsPath string) (*Result, error) {
	result := &Result{RunID: uuid.NewString(), Diarized: true}
	ctx = logger.ContextWithRunID(ctx, result.RunID)
	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
	defer span.End()

	segments, err := readSRT(srtPath)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	turns, err := readTurns(turnsPath)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	labeled, err := runStage(ctx, p, StageAlign, func(ctx context.Context) ([]timeline.LabeledSegment, error) {
		return alignment.Align(segments, turns, p.alignOptions(ctx)...)
	})
	if err != nil {
		return nil, err
	}
	p.metrics.RecordAlignment(ctx, len(labeled), countUnknown(labeled, p.unknownLabel()))
	result.Segments = labeled
	result.Speakers = countSpeakers(labeled, p.unknownLabel())

	base := strings.TrimSuffix(filepath.Base(srtPath), filepath.Ext(srtPath))
	locations, err := runStage(ctx, p, StageStore, func(ctx context.Context) ([]string, error) {
		return p.sink.PutAll(ctx,
			storage.Object{Name: base + ".txt", Data: []byte(caption.RenderPlain(labeled))},
			storage.Object{Name: base + "_diarized.txt", Data: []byte(caption.RenderDiarized(labeled))},
		)
	})
	if err != nil {
		return nil, err
	}
	result.Outputs = Outputs{Text: locations[0], Diarized: locations[1]}

	p.log.WithContext(ctx).Info("files aligned", logger.Fields(
		logger.FieldPath, srtPath,
		logger.FieldSegments, len(labeled),
		logger.FieldTurns, len(turns),
		logger.FieldSpeakers, result.Speakers,
	))
	return result, nil
}

func readSRT(path string) ([]timeline.Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("transcript", path)
		}
		return nil, apperrors.Internal(err)
	}
	defer f.Close()
	return caption.ParseSRT(f)
}

func readTurns(path string) ([]timeline.Turn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("turns", path)
		}
		return nil, apperrors.Internal(err)
	}

	var resp diarization.Response
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		err = json.Unmarshal(trimmed, &resp)
	} else {
		err = json.Unmarshal(trimmed, &resp.Segments)
	}
	if err != nil {
		return nil, apperrors.InvalidFormat("turns", "JSON array of {start, end, speaker}").WithCause(err)
	}
	for i, s := range resp.Segments {
		if strings.TrimSpace(s.Speaker) == "" {
			return nil, apperrors.MalformedInput("turn", i, s.Start, s.End, "speaker is empty")
		}
	}
	return resp.Turns()
}
