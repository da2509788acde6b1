package docsrs

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/docproc/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/docproc/pkg/core/model"
)

type listReq struct {
	Skip  int `form:"skip,default=0" binding:"omitempty,min=0"`
	Limit int `form:"limit,default=100" binding:"omitempty,min=1,max=1000"`
}

type docIDReq struct {
	DocID string `uri:"did" binding:"required,uuid4"`
}

type documentResp struct {
	ID           uuid.UUID  `json:"id"`
	FileName     string     `json:"filename"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	TextLength   int        `json:"text_length"`
}

type uploadResp struct {
	documentResp
	TextPreview string `json:"text_preview"`
}

type textResp struct {
	ID         uuid.UUID `json:"id"`
	FileName   string    `json:"filename"`
	Text       string    `json:"text"`
	TextLength int       `json:"text_length"`
}

func (rs *resource) DserListReq(c *gin.Context) *listReq {
	req := &listReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	return req
}

func (rs *resource) DserDocID(c *gin.Context) (uuid.UUID, bool) {
	req := &docIDReq{}
	if ok := serdser.BindUri(c, req); !ok {
		return uuid.Nil, false
	}
	docID, err := uuid.Parse(req.DocID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "path param did is not a UUID",
		})
		return uuid.Nil, false
	}
	return docID, true
}

func (rs *resource) SerDocumentResp(d *model.Document) documentResp {
	return documentResp{
		ID:           d.ID,
		FileName:     d.FileName,
		Status:       d.Status.String(),
		ErrorMessage: d.ErrorMessage,
		CreatedAt:    d.CreatedAt,
		ProcessedAt:  d.ProcessedAt,
		TextLength:   len(d.ExtractedText),
	}
}

func (rs *resource) SerUploadResp(d *model.Document) uploadResp {
	return uploadResp{
		documentResp: rs.SerDocumentResp(d),
		TextPreview:  rs.docs.Preview(d.ExtractedText),
	}
}

func (rs *resource) SerTextResp(d *model.Document) textResp {
	return textResp{
		ID:         d.ID,
		FileName:   d.FileName,
		Text:       d.ExtractedText,
		TextLength: len(d.ExtractedText),
	}
}

func (rs *resource) SerListResp(dl []model.Document) []documentResp {
	resp := make([]documentResp, 0, len(dl))
	for i := range dl {
		resp = append(resp, rs.SerDocumentResp(&dl[i]))
	}
	return resp
}
