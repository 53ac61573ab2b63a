package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"file-vault/backend/library/objectid"
)

// FileType is the kind of a record. Only folders may have children.
type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

func (t FileType) Valid() bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	}
	return false
}

// ParentID is either objectid.Root or the id of a folder. On the wire the
// root is the JSON number 0 and any other parent is a string.
type ParentID string

const RootParent ParentID = objectid.Root

func (p ParentID) IsRoot() bool {
	return objectid.IsRoot(string(p))
}

func (p ParentID) MarshalJSON() ([]byte, error) {
	if p.IsRoot() {
		return []byte("0"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts 0, "0", null or an id string. Any other literal is
// kept verbatim so identifier validation rejects it later.
func (p *ParentID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*p = RootParent
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parentId: %w", err)
		}
		*p = ParentID(strings.TrimSpace(s))
	default:
		*p = ParentID(string(data))
	}
	if *p == "" {
		*p = RootParent
	}
	return nil
}

// File is a file or folder record. Data holds the inline payload reference
// of non-folder records and is never serialised to clients.
type File struct {
	ID        string    `json:"id" gorm:"primaryKey;size:24"`
	UserID    string    `json:"userId" gorm:"size:24;not null;index:idx_files_owner_parent,priority:1"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Type      FileType  `json:"type" gorm:"size:16;not null"`
	IsPublic  bool      `json:"isPublic" gorm:"not null;default:false"`
	ParentID  ParentID  `json:"parentId" gorm:"size:24;not null;index:idx_files_owner_parent,priority:2"`
	Data      *string   `json:"-" gorm:"type:text"`
	CreatedAt time.Time `json:"-" gorm:"index"`
}

func (f *File) TableName() string {
	return "files"
}

func (f *File) IsFolder() bool {
	return f.Type == FileTypeFolder
}
