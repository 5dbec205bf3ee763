// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import "context"

// SimulatedProvider serves a fixed set of sample manifest pages. It exists
// so the analysis pipeline can run when no real extraction source is
// available, honoring the same (pageNumber, text) contract. The pages are
// the same for every handle; output is fully deterministic.
type SimulatedProvider struct {
	pages []Page
}

// NewSimulatedProvider creates a provider returning a built-in sample
// manifest.
func NewSimulatedProvider() *SimulatedProvider {
	return &SimulatedProvider{
		pages: []Page{
			{
				Number: 1,
				Text: "DANGEROUS GOODS MANIFEST\n" +
					"Shipper: Example Logistics Pty Ltd\n" +
					"Item 1: UN1090 Acetone, 4 x 20 L steel drums\n" +
					"Item 2: UN1203 Motor spirit, 2 x 200 L drums",
			},
			{
				Number: 2,
				Text: "Item 3: Paint, flammable, 12 x 5 L tins\n" +
					"Item 4: UN1830 Sulphuric acid, 1 x 30 L carboy\n" +
					"Emergency contact: +61 2 5550 0199",
			},
			{
				Number: 3,
				Text: "Declaration: I hereby declare that the contents of this\n" +
					"consignment are fully and accurately described above by the\n" +
					"proper shipping name and are packed, marked and labelled.",
			},
		},
	}
}

// WithPages overrides the sample pages, for callers composing their own
// simulated documents.
func (p *SimulatedProvider) WithPages(pages []Page) *SimulatedProvider {
	p.pages = pages
	return p
}

func (p *SimulatedProvider) Name() string {
	return "simulated"
}

func (p *SimulatedProvider) ExtractPages(ctx context.Context, handle string) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages := make([]Page, len(p.pages))
	copy(pages, p.pages)
	return pages, nil
}
