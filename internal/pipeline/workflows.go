package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"decorstudio/internal/catalog"
	"decorstudio/internal/extract"
	"decorstudio/internal/llm"
	"decorstudio/internal/prompts"
	"decorstudio/internal/session"
)

// IdeasAndHero holds the two independent handles of one ideas request.
type IdeasAndHero struct {
	Ideas *Task[session.IdeasResult]
	Hero  *Task[session.ImageResult]
}

// GenerateIdeasAndHero starts the ideas and hero image runs side by side.
// Neither waits for the other and each settles into its own slice.
func (o *Orchestrator) GenerateIdeasAndHero(ctx context.Context, style catalog.Style, room catalog.Room) IdeasAndHero {
	ideas := launch(ctx, o, session.Target{Kind: session.KindIdeas}, session.StageGeneratingIdeas,
		func(run session.Run) session.IdeasResult {
			return session.IdeasResult{Run: run, StyleID: style.ID, RoomID: room.ID}
		},
		o.store.CommitIdeas,
		func(r *runState) session.IdeasResult {
			res := session.IdeasResult{StyleID: style.ID, RoomID: room.ID}
			list, err := o.ideas(r.ctx, style, room)
			if err != nil {
				res.Run = r.fail(failure(session.StageGeneratingIdeas, err, msgIdeasFailed, true))
				return res
			}
			res.Ideas = list
			res.Run = r.succeed()
			return res
		},
	)

	hero := launch(ctx, o, session.Target{Kind: session.KindHero}, session.StageGeneratingImage,
		func(run session.Run) session.ImageResult { return session.ImageResult{Run: run} },
		o.store.CommitHero,
		func(r *runState) session.ImageResult {
			img, err := o.render(r.ctx, style, room.Label, "", session.QualityStandard, prompts.Image(style, room.Label, ""))
			if err != nil {
				return session.ImageResult{Run: r.fail(failure(session.StageGeneratingImage, err, msgImageFailed, false))}
			}
			return session.ImageResult{Run: r.succeed(), Image: img}
		},
	)

	return IdeasAndHero{Ideas: ideas, Hero: hero}
}

func (o *Orchestrator) ideas(ctx context.Context, style catalog.Style, room catalog.Room) ([]session.DesignIdea, error) {
	chat := prompts.Ideas(style, room)
	text, err := o.client.ChatComplete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: chat.System},
		{Role: llm.RoleUser, Content: chat.User},
	}, prompts.IdeasMaxTokens)
	if err != nil {
		return nil, err
	}
	list, err := extract.Ideas(text)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].ID = uuid.NewString()
	}
	return list, nil
}

// GenerateCardImage renders the image of one idea card. Cards run
// independently of each other and of the hero image.
func (o *Orchestrator) GenerateCardImage(ctx context.Context, style catalog.Style, room catalog.Room, ideaID, title string) *Task[session.ImageResult] {
	extra := fmt.Sprintf("Featuring: %s.", title)
	commit := func(res session.ImageResult) bool { return o.store.CommitCard(ideaID, res) }

	return launch(ctx, o, session.Target{Kind: session.KindCard, Key: ideaID}, session.StageGeneratingImage,
		func(run session.Run) session.ImageResult { return session.ImageResult{Run: run} },
		commit,
		func(r *runState) session.ImageResult {
			img, err := o.render(r.ctx, style, room.Label, extra, session.QualityStandard, prompts.Image(style, room.Label, extra))
			if err != nil {
				return session.ImageResult{Run: r.fail(failure(session.StageGeneratingImage, err, msgImageFailed, false))}
			}
			return session.ImageResult{Run: r.succeed(), Image: img}
		},
	)
}

// Photo is the uploaded room photo handed to a makeover.
type Photo struct {
	Data      []byte
	MIME      string
	UploadKey string
}

// RunMakeover describes the photo and then renders it restyled. The image
// stage only starts once the analysis succeeded.
func (o *Orchestrator) RunMakeover(ctx context.Context, style catalog.Style, photo Photo) (*Task[session.MakeoverResult], error) {
	if len(photo.Data) == 0 {
		return nil, ErrNoPhoto
	}
	base := session.MakeoverResult{StyleID: style.ID, UploadKey: photo.UploadKey}

	task := launch(ctx, o, session.Target{Kind: session.KindMakeover}, session.StageAnalyzingPhoto,
		func(run session.Run) session.MakeoverResult {
			res := base
			res.Run = run
			return res
		},
		o.store.CommitMakeover,
		func(r *runState) session.MakeoverResult {
			res := base
			analysis, err := o.client.AnalyzeImage(r.ctx, llm.ImageRef{Data: photo.Data, MIME: photo.MIME}, prompts.VisionDescribe())
			if err != nil {
				res.Run = r.fail(dependency(failure(session.StageAnalyzingPhoto, err, msgVisionFailed, false), "Analysis failed"))
				return res
			}
			res.Analysis = analysis

			res.Run = r.advance(session.StageGeneratingImage)
			o.store.CommitMakeover(res)

			prompt := prompts.Makeover(style, analysis)
			img, err := o.render(r.ctx, style, "", "", session.QualityHD, prompt)
			if err != nil {
				res.Run = r.fail(failure(session.StageGeneratingImage, err, msgMakeoverFailed, false))
				return res
			}
			res.Image = img
			res.Run = r.succeed()
			return res
		},
	)
	return task, nil
}

// RemoveItems inventories the current rendering and regenerates it without
// the named items. The provider has no object level edit, so the result
// relies on the prompt alone and is not checked against the source.
func (o *Orchestrator) RemoveItems(ctx context.Context, source session.GeneratedImage, itemsText string, style catalog.Style, roomLabel string) (*Task[session.RemovalResult], error) {
	remove := extract.ItemList(itemsText)
	if len(remove) == 0 {
		return nil, ErrNoItems
	}
	if source.URL == "" && source.MediaKey == "" {
		return nil, ErrNoRendering
	}
	base := session.RemovalResult{SourceURL: source.URL, RemovedItems: remove}

	task := launch(ctx, o, session.Target{Kind: session.KindRemoval}, session.StageInventoryingItems,
		func(run session.Run) session.RemovalResult {
			res := base
			res.Run = run
			return res
		},
		o.store.CommitRemoval,
		func(r *runState) session.RemovalResult {
			res := base
			detected, err := o.inventory(r.ctx, source)
			if err != nil {
				res.Run = r.fail(dependency(failure(session.StageInventoryingItems, err, msgVisionFailed, false), "Inventory failed"))
				return res
			}
			res.DetectedItems = detected

			res.Run = r.advance(session.StageGeneratingImage)
			o.store.CommitRemoval(res)

			prompt := prompts.ItemRemoval(style, roomLabel, detected, remove)
			img, err := o.render(r.ctx, style, roomLabel, "", session.QualityHD, prompt)
			if err != nil {
				res.Run = r.fail(failure(session.StageGeneratingImage, err, msgRemovalFailed, false))
				return res
			}
			res.Image = img
			res.Run = r.succeed()
			return res
		},
	)
	return task, nil
}

// inventory lists what is visible in the rendering. Renderings held in the
// media store are sent inline since the provider cannot reach local URLs.
func (o *Orchestrator) inventory(ctx context.Context, source session.GeneratedImage) ([]string, error) {
	ref := llm.ImageRef{URL: source.URL}
	if source.MediaKey != "" && o.media != nil {
		obj, err := o.media.Open(ctx, source.MediaKey)
		if err != nil {
			return nil, fmt.Errorf("open rendering %s: %w", source.MediaKey, err)
		}
		ref = llm.ImageRef{Data: obj.Data, MIME: obj.ContentType}
	}
	text, err := o.client.AnalyzeImage(ctx, ref, prompts.ItemInventory())
	if err != nil {
		return nil, err
	}
	return extract.ItemList(text), nil
}

func (o *Orchestrator) render(ctx context.Context, style catalog.Style, roomLabel, extra string, quality session.Quality, prompt string) (*session.GeneratedImage, error) {
	out, err := o.client.GenerateImage(ctx, prompt, quality)
	if err != nil {
		return nil, err
	}
	return &session.GeneratedImage{
		URL:       out.URL,
		MediaKey:  out.MediaKey,
		StyleID:   style.ID,
		RoomLabel: roomLabel,
		Extra:     extra,
		Quality:   quality,
		Prompt:    prompt,
		CreatedAt: o.now(),
	}, nil
}
