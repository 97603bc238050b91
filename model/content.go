package model

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

type BlockType string

const (
	BlockText   BlockType = "paragraph"
	BlockHeader BlockType = "header"
	BlockList   BlockType = "list"
	BlockCode   BlockType = "code"
	BlockImage  BlockType = "image"
)

// Block is one typed unit of rich post content. The set of implementations is
// closed: paragraph, header, list, code and image. Anything else in the stored
// JSON is rejected at parse time instead of being carried around untyped.
type Block interface {
	BlockType() BlockType
}

type TextBlock struct {
	Text string `json:"text"`
}

func (TextBlock) BlockType() BlockType { return BlockText }

type HeaderBlock struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

func (HeaderBlock) BlockType() BlockType { return BlockHeader }

type ListBlock struct {
	Style string   `json:"style"`
	Items []string `json:"items"`
}

func (ListBlock) BlockType() BlockType { return BlockList }

type CodeBlock struct {
	Code string `json:"code"`
}

func (CodeBlock) BlockType() BlockType { return BlockCode }

type ImageBlock struct {
	File    ImageFile `json:"file"`
	Caption string    `json:"caption"`
}

type ImageFile struct {
	Url string `json:"url"`
}

func (ImageBlock) BlockType() BlockType { return BlockImage }

/*

PostContent is the parsed form of Post.Content

The stored JSON keeps the editor envelope {"blocks": [{"type": ..., "data": ...}]}
so existing rows remain readable, but in memory every block is one of the typed
variants above. Rendering is out of scope here; the only content-derived decision
this service makes is whether the trailing block is an image (used for community
feed thumbnails).

*/
type PostContent struct {
	Blocks []Block
}

type blockEnvelope struct {
	Type BlockType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

type contentEnvelope struct {
	Blocks []blockEnvelope `json:"blocks"`
}

func (c *PostContent) UnmarshalJSON(data []byte) error {
	var env contentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	blocks := make([]Block, 0, len(env.Blocks))
	for _, raw := range env.Blocks {
		block, err := decodeBlock(raw)
		if err != nil {
			return err
		}
		blocks = append(blocks, block)
	}
	c.Blocks = blocks
	return nil
}

func (c PostContent) MarshalJSON() ([]byte, error) {
	env := contentEnvelope{Blocks: []blockEnvelope{}}
	for _, block := range c.Blocks {
		data, err := json.Marshal(block)
		if err != nil {
			return nil, err
		}
		env.Blocks = append(env.Blocks, blockEnvelope{Type: block.BlockType(), Data: data})
	}
	return json.Marshal(env)
}

func decodeBlock(raw blockEnvelope) (Block, error) {
	switch raw.Type {
	case BlockText:
		var b TextBlock
		return &b, json.Unmarshal(raw.Data, &b)
	case BlockHeader:
		var b HeaderBlock
		return &b, json.Unmarshal(raw.Data, &b)
	case BlockList:
		var b ListBlock
		return &b, json.Unmarshal(raw.Data, &b)
	case BlockCode:
		var b CodeBlock
		return &b, json.Unmarshal(raw.Data, &b)
	case BlockImage:
		var b ImageBlock
		return &b, json.Unmarshal(raw.Data, &b)
	default:
		return nil, fmt.Errorf("unknown content block type: %s", raw.Type)
	}
}

// ParsePostContent decodes the JSON column of a post into typed blocks.
func ParsePostContent(content datatypes.JSON) (*PostContent, error) {
	var c PostContent
	if err := json.Unmarshal(content, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Encode serializes the content back into the storable column form.
func (c *PostContent) Encode() (datatypes.JSON, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// LastBlockIsImage reports whether the trailing content block is an image.
func (c *PostContent) LastBlockIsImage() bool {
	if len(c.Blocks) == 0 {
		return false
	}
	_, ok := c.Blocks[len(c.Blocks)-1].(*ImageBlock)
	return ok
}
