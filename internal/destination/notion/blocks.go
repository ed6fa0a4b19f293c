package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

// appendChunkSize is the API's limit on children per append request.
const appendChunkSize = 100

// toBlocks converts entry content into API block payloads.
func toBlocks(content []domain.Block) []notionapi.Block {
	blocks := make([]notionapi.Block, 0, len(content))
	for _, b := range content {
		blocks = append(blocks, toBlock(b))
	}
	return blocks
}

func toBlock(b domain.Block) notionapi.Block {
	switch b.Type {
	case domain.BlockHeading:
		return &notionapi.Heading3Block{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeHeading3,
			},
			Heading3: notionapi.Heading{RichText: richText(b.Text, false)},
		}
	case domain.BlockTable:
		return toTableBlock(b.Table)
	case domain.BlockDivider:
		return &notionapi.DividerBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeDivider,
			},
			Divider: notionapi.Divider{},
		}
	default:
		return &notionapi.ParagraphBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeParagraph,
			},
			Paragraph: notionapi.Paragraph{RichText: richText(b.Text, b.Italic)},
		}
	}
}

func toTableBlock(table *domain.Table) notionapi.Block {
	if table == nil {
		table = &domain.Table{}
	}
	rows := make(notionapi.Blocks, 0, len(table.Rows)+1)
	rows = append(rows, tableRow(table.Header))
	for _, cells := range table.Rows {
		rows = append(rows, tableRow(cells))
	}
	return &notionapi.TableBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeTableBlock,
		},
		Table: notionapi.Table{
			TableWidth:      len(table.Header),
			HasColumnHeader: true,
			Children:        rows,
		},
	}
}

func tableRow(cells []string) notionapi.Block {
	rowCells := make([][]notionapi.RichText, len(cells))
	for i, cell := range cells {
		rowCells[i] = richText(cell, false)
	}
	return &notionapi.TableRowBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeTableRowBlock,
		},
		TableRow: notionapi.TableRow{Cells: rowCells},
	}
}

// replaceChildren deletes a page's existing content blocks and appends the
// new content, chunked under the API's append limit. This is how rebuilds
// regenerate workout detail pages.
func replaceChildren(ctx context.Context, client *notionapi.Client, pageID string, content []domain.Block) error {
	blockID := notionapi.BlockID(pageID)

	var cursor notionapi.Cursor
	for {
		children, err := client.Block.GetChildren(ctx, blockID, &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    appendChunkSize,
		})
		if err != nil {
			return fmt.Errorf("list page blocks: %w", err)
		}
		for _, child := range children.Results {
			if _, err := client.Block.Delete(ctx, child.GetID()); err != nil {
				return fmt.Errorf("delete block %s: %w", child.GetID(), err)
			}
		}
		if !children.HasMore {
			break
		}
		cursor = notionapi.Cursor(children.NextCursor)
	}

	blocks := toBlocks(content)
	for start := 0; start < len(blocks); start += appendChunkSize {
		end := min(start+appendChunkSize, len(blocks))
		_, err := client.Block.AppendChildren(ctx, blockID, &notionapi.AppendBlockChildrenRequest{
			Children: blocks[start:end],
		})
		if err != nil {
			return fmt.Errorf("append page blocks: %w", err)
		}
	}
	return nil
}
