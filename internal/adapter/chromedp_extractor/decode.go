package chromedp_extractor

import (
	"context"
	"encoding/json"
	"fmt"

	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/akazwz/extract/internal/entity"
)

// decodeScript runs in the page context. It spawns one decode attempt per
// candidate src and resolves once every attempt has settled; a failing or
// hanging attempt never blocks or cancels its siblings. Each attempt races
// the browser's image decode against a timeout and always resolves, so the
// joined promise cannot reject.
const decodeScript = `(async () => {
	const srcs = %s;
	const timeoutMs = %d;
	const attempts = srcs.map((src) => new Promise((resolve) => {
		const img = new Image();
		const done = (decoded) => resolve({
			src: src,
			decoded: decoded,
			width: decoded ? img.naturalWidth : 0,
			height: decoded ? img.naturalHeight : 0,
		});
		const timer = setTimeout(() => done(false), timeoutMs);
		img.onerror = () => { clearTimeout(timer); done(false); };
		img.src = src;
		img.decode()
			.then(() => { clearTimeout(timer); done(true); })
			.catch(() => { clearTimeout(timer); done(false); });
	}));
	return Promise.all(attempts);
})()`

type decodeResult struct {
	Src     string `json:"src"`
	Width   int64  `json:"width"`
	Height  int64  `json:"height"`
	Decoded bool   `json:"decoded"`
}

// decodeAll measures every candidate inside the page's own script context
// and folds the outcomes back into the records. Records whose decode failed
// or timed out are left untouched. Only a failure of the evaluation itself
// is an error.
func (e *ChromedpExtractor) decodeAll(ctx context.Context, records []entity.ImageRecord) error {
	if len(records) == 0 {
		return nil
	}

	payload, err := json.Marshal(uniqueSrcs(records))
	if err != nil {
		return fmt.Errorf("marshal decode candidates: %w", err)
	}
	expr := fmt.Sprintf(decodeScript, payload, e.decodeTimeout.Milliseconds())

	var results []decodeResult
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &results, awaitPromise)); err != nil {
		return fmt.Errorf("in-page decode pass: %w", err)
	}

	applyDecodeResults(records, results)
	return nil
}

// applyDecodeResults copies measured dimensions onto every record whose src
// decoded successfully. Failed or missing attempts leave their records at
// zero dimensions with Decoded still false.
func applyDecodeResults(records []entity.ImageRecord, results []decodeResult) {
	bySrc := make(map[string]decodeResult, len(results))
	for _, res := range results {
		if _, ok := bySrc[res.Src]; !ok {
			bySrc[res.Src] = res
		}
	}
	for i := range records {
		res, ok := bySrc[records[i].Src]
		if !ok || !res.Decoded {
			continue
		}
		records[i].Width = res.Width
		records[i].Height = res.Height
		records[i].Decoded = true
	}
}

// uniqueSrcs returns the distinct srcs in discovery order. Duplicate
// candidates share one decode attempt; the outcome applies to all of them.
func uniqueSrcs(records []entity.ImageRecord) []string {
	seen := make(map[string]struct{}, len(records))
	srcs := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.Src]; ok {
			continue
		}
		seen[r.Src] = struct{}{}
		srcs = append(srcs, r.Src)
	}
	return srcs
}

func awaitPromise(p *cdpruntime.EvaluateParams) *cdpruntime.EvaluateParams {
	return p.WithAwaitPromise(true)
}
