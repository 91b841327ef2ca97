// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package intake

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractText parses an HTML document and returns two strings:
//
//   - fullText: every text node in document order, whitespace-joined
//     and stripped.
//   - importantText: the same, but restricted to text under any
//     element whose tag name is in importantTags. Nested important
//     elements (e.g. a <b> inside an <h1>) each contribute their own
//     subtree text independently, so their shared text is counted
//     once per enclosing important tag.
func ExtractText(htmlContent string, importantTags map[string]struct{}) (fullText, importantText string, err error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", "", err
	}

	var fullParts, importantParts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				fullParts = append(fullParts, t)
			}
		}
		if n.Type == html.ElementNode {
			if _, ok := importantTags[n.Data]; ok {
				if t := strings.TrimSpace(subtreeText(n)); t != "" {
					importantParts = append(importantParts, t)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(fullParts, " "), strings.Join(importantParts, " "), nil
}

// subtreeText joins all text-node data under n (n included) with a
// single space.
func subtreeText(n *html.Node) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
