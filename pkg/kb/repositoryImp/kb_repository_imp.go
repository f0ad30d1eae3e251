package repositoryImp

import (
	"gorm.io/gorm"

	"piar/entities"
	"piar/pkg/kb/repository"
)

type kbRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.KBRepository { return &kbRepo{db} }

func (r *kbRepo) CreateDoc(d *entities.KBDocument) error { return r.db.Create(d).Error }

func (r *kbRepo) BulkInsertChunks(chs []entities.KBChunk) error {
	if len(chs) == 0 {
		return nil
	}
	return r.db.Create(&chs).Error
}

func (r *kbRepo) ListDocs() ([]entities.KBDocument, error) {
	var out []entities.KBDocument
	if err := r.db.Order("doc_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *kbRepo) AllChunks() ([]entities.KBChunk, error) {
	var out []entities.KBChunk
	if err := r.db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *kbRepo) DocsByIDs(ids []uint) (map[uint]entities.KBDocument, error) {
	var docs []entities.KBDocument
	if err := r.db.Where("doc_id IN ?", ids).Find(&docs).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]entities.KBDocument, len(docs))
	for _, d := range docs {
		out[d.DocID] = d
	}
	return out, nil
}
