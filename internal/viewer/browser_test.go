// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package viewer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/slideview/internal/codec"
	"github.com/pdiddy/slideview/pkg/types"
)

// requireBrowserEnv turns a missing browser into a failure instead of a skip.
const requireBrowserEnv = "SLIDEVIEW_REQUIRE_BROWSER"

func findBrowser() string {
	for _, browser := range []string{"chromium", "chromium-browser", "google-chrome", "chrome"} {
		if path, err := exec.LookPath(browser); err == nil {
			return path
		}
	}
	return ""
}

func skipOrFail(t *testing.T, format string, args ...any) {
	t.Helper()
	if os.Getenv(requireBrowserEnv) != "" {
		t.Fatalf(format, args...)
	}
	t.Skipf(format, args...)
}

// openViewer starts headless Chrome on the index.html at path. Scripts in
// before run ahead of the page's own.
func openViewer(t *testing.T, path string, before ...string) context.Context {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	browserPath := findBrowser()
	if browserPath == "" {
		skipOrFail(t, "No Chrome/Chromium browser found, skipping chromedp test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(browserPath),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	t.Cleanup(allocCancel)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	t.Cleanup(taskCancel)

	actions := make([]chromedp.Action, 0, len(before)+2)
	for _, src := range before {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(src).Do(ctx)
			return err
		}))
	}
	actions = append(actions,
		chromedp.Navigate("file://"+path),
		chromedp.WaitReady("#slidesData", chromedp.ByQuery),
	)
	if err := chromedp.Run(taskCtx, actions...); err != nil {
		skipOrFail(t, "Chromedp failed to navigate (browser may not be compatible): %v", err)
	}
	return taskCtx
}

func solidURI(t *testing.T, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	data, err := codec.Encode(img, types.FormatPNG, 85)
	require.NoError(t, err)
	return codec.DataURI(data, types.FormatPNG)
}

// modalState reads what the modal currently shows.
type modalState struct {
	Display  string `json:"display"`
	Overflow string `json:"overflow"`
	Info     string `json:"info"`
}

const readModal = `({
	display: document.getElementById('slideModal').style.display,
	overflow: document.body.style.overflow,
	info: document.getElementById('modalInfo').textContent
})`

func TestViewerInBrowser(t *testing.T) {
	uri := solidURI(t, color.RGBA{R: 200, G: 40, B: 40, A: 255})
	slides := []types.Slide{
		types.NewSlide("Alpha", 1, uri, uri),
		types.NewSlide("Alpha", 2, uri, uri),
		types.NewSlide("Beta", 1, uri, uri),
	}
	path, _, err := WriteIndex(t.TempDir(), slides, Options{SingleFile: true})
	require.NoError(t, err)
	ctx := openViewer(t, path)

	t.Run("search", func(t *testing.T) {
		var (
			slideCount  string
			betaHidden  bool
			page1Hidden bool
			page2Shown  bool
			restored    bool
		)
		require.NoError(t, chromedp.Run(ctx,
			chromedp.Text("#slideCount", &slideCount, chromedp.ByQuery),
			chromedp.SendKeys("#searchBox", "alpha page 2", chromedp.ByQuery),
			chromedp.Evaluate(`document.querySelector('[data-presentation="Beta"].presentation-section').style.display === 'none'`, &betaHidden),
			chromedp.Evaluate(`document.querySelector('[data-slide-id="Alpha_page_1"]').style.display === 'none'`, &page1Hidden),
			chromedp.Evaluate(`document.querySelector('[data-slide-id="Alpha_page_2"]').style.display === ''`, &page2Shown),
			chromedp.Evaluate(`(() => {
				const box = document.getElementById('searchBox');
				box.value = '';
				box.dispatchEvent(new Event('input'));
				return [...document.querySelectorAll('.slide-card, .presentation-section')]
					.every(el => el.style.display === '');
			})()`, &restored),
		))
		assert.Equal(t, "3", slideCount)
		assert.True(t, betaHidden, "Beta section should be hidden by search")
		assert.True(t, page1Hidden, "non-matching card in a matching section should be hidden")
		assert.True(t, page2Shown, "matching card should stay visible")
		assert.True(t, restored, "clearing the search should show every card and section")
	})

	t.Run("view toggle", func(t *testing.T) {
		var listMode, gridMode bool
		require.NoError(t, chromedp.Run(ctx,
			chromedp.Click(`.view-btn[data-view="list"]`, chromedp.ByQuery),
			chromedp.Evaluate(`document.querySelectorAll('.slides.slides-list').length === 2`, &listMode),
			chromedp.Click(`.view-btn[data-view="grid"]`, chromedp.ByQuery),
			chromedp.Evaluate(`document.querySelectorAll('.slides.slides-grid').length === 2`, &gridMode),
		))
		assert.True(t, listMode, "list view not applied to every container")
		assert.True(t, gridMode, "grid view not restored on every container")
	})

	t.Run("buttons wrap both ways", func(t *testing.T) {
		var opened, prevWrap, forward, last, nextWrap, closed modalState
		require.NoError(t, chromedp.Run(ctx,
			chromedp.Click(`[data-slide-id="Alpha_page_1"]`, chromedp.ByQuery),
			chromedp.WaitVisible("#slideModal", chromedp.ByQuery),
			chromedp.Evaluate(readModal, &opened),
			chromedp.Click("#modalPrev", chromedp.ByQuery),
			chromedp.Evaluate(readModal, &prevWrap),
			chromedp.Click("#modalNext", chromedp.ByQuery),
			chromedp.Evaluate(readModal, &forward),
			chromedp.Click("#modalNext", chromedp.ByQuery),
			chromedp.Click("#modalNext", chromedp.ByQuery),
			chromedp.Evaluate(readModal, &last),
			chromedp.Click("#modalNext", chromedp.ByQuery),
			chromedp.Evaluate(readModal, &nextWrap),
			chromedp.Click("#modalClose", chromedp.ByQuery),
			chromedp.Evaluate(readModal, &closed),
		))
		assert.Equal(t, modalState{Display: "block", Overflow: "hidden", Info: "Alpha - Page 1 of 2"}, opened)
		assert.Equal(t, "Beta - Page 1 of 1", prevWrap.Info)
		assert.Equal(t, "Alpha - Page 1 of 2", forward.Info)
		assert.Equal(t, "Beta - Page 1 of 1", last.Info)
		assert.Equal(t, "Alpha - Page 1 of 2", nextWrap.Info, "next on the last slide should wrap to the first")
		assert.Equal(t, "none", closed.Display)
		assert.Equal(t, "", closed.Overflow, "closing should restore page scrolling")
	})

	t.Run("keyboard", func(t *testing.T) {
		var right, wrapped, forward, escaped, ignored modalState
		require.NoError(t, chromedp.Run(ctx,
			chromedp.Click(`[data-slide-id="Alpha_page_2"]`, chromedp.ByQuery),
			chromedp.WaitVisible("#slideModal", chromedp.ByQuery),
			chromedp.KeyEvent(kb.ArrowRight),
			chromedp.Evaluate(readModal, &right),
			chromedp.KeyEvent(kb.ArrowLeft),
			chromedp.KeyEvent(kb.ArrowLeft),
			chromedp.KeyEvent(kb.ArrowLeft),
			chromedp.Evaluate(readModal, &wrapped),
			chromedp.KeyEvent(kb.ArrowRight),
			chromedp.Evaluate(readModal, &forward),
			chromedp.KeyEvent(kb.Escape),
			chromedp.Evaluate(readModal, &escaped),
			chromedp.KeyEvent(kb.ArrowRight),
			chromedp.Evaluate(readModal, &ignored),
		))
		assert.Equal(t, "Beta - Page 1 of 1", right.Info)
		assert.Equal(t, "Beta - Page 1 of 1", wrapped.Info, "ArrowLeft on the first slide should wrap to the last")
		assert.Equal(t, "Alpha - Page 1 of 2", forward.Info)
		assert.Equal(t, "none", escaped.Display)
		assert.Equal(t, "", escaped.Overflow)
		assert.Equal(t, escaped.Info, ignored.Info, "arrow keys must do nothing while the modal is closed")
	})

	t.Run("backdrop", func(t *testing.T) {
		var imageClick, contentClick modalState
		require.NoError(t, chromedp.Run(ctx,
			chromedp.Click(`[data-slide-id="Beta_page_1"]`, chromedp.ByQuery),
			chromedp.WaitVisible("#slideModal", chromedp.ByQuery),
			chromedp.Evaluate(`document.getElementById('modalImage').click()`, nil),
			chromedp.Evaluate(readModal, &imageClick),
			chromedp.Evaluate(`document.querySelector('#slideModal .modal-content').click()`, nil),
			chromedp.Evaluate(readModal, &contentClick),
		))
		assert.Equal(t, "block", imageClick.Display, "clicking the image must not close the modal")
		assert.Equal(t, "none", contentClick.Display)
		assert.Equal(t, "", contentClick.Overflow)
	})
}

// countImages records every Image constructed by the page script.
const countImages = `(() => {
	const Native = window.Image;
	window.__preloaded = [];
	window.Image = function (w, h) {
		const img = new Native(w, h);
		window.__preloaded.push(img);
		return img;
	};
})();`

func TestViewerInBrowser_PreloadsFirstTen(t *testing.T) {
	var slides []types.Slide
	for i := 1; i <= 12; i++ {
		slides = append(slides, types.NewSlide("Deck", i,
			fmt.Sprintf("images/Deck_page_%03d.png", i),
			fmt.Sprintf("thumbnails/Deck_page_%03d_thumb.png", i)))
	}
	path, _, err := WriteIndex(t.TempDir(), slides, Options{})
	require.NoError(t, err)
	ctx := openViewer(t, path, countImages)

	var srcs []string
	require.NoError(t, chromedp.Run(ctx,
		chromedp.Evaluate(`window.__preloaded.map(img => img.src.split('/').slice(-2).join('/'))`, &srcs),
	))
	require.Len(t, srcs, 10)
	for i, src := range srcs {
		assert.Equal(t, fmt.Sprintf("images/Deck_page_%03d.png", i+1), src)
	}
}
