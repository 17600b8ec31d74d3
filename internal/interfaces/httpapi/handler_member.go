package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/capao/capitascore/internal/domain/member"
	"github.com/capao/capitascore/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type memberResponse struct {
	ID        int64     `json:"id"`
	PUUID     string    `json:"puuid"`
	Name      string    `json:"name"`
	Nick      string    `json:"nick,omitempty"`
	Tag       string    `json:"tag,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func toMemberResponse(m member.Member) memberResponse {
	return memberResponse{
		ID:        m.ID,
		PUUID:     m.PUUID,
		Name:      m.Name,
		Nick:      m.Nick,
		Tag:       m.Tag,
		Active:    m.IsActive(),
		CreatedAt: m.CreatedAt,
	}
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "Handler.ListMembers")
	defer span.End()

	members, err := h.members.List(ctx)
	if err != nil {
		writeUsecaseError(ctx, w, h.logger, err)
		return
	}

	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	writeData(w, http.StatusOK, map[string]any{"members": out})
}

func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "Handler.CreateMember")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "read request body failed")
		return
	}

	var input usecase.CreateMemberInput
	if err := sonic.Unmarshal(body, &input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "request body must be valid JSON")
		return
	}

	if err := h.validate.StructCtx(ctx, input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			items := make([]errorItem, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				items = append(items, errorItem{
					Reason:  fe.Tag(),
					Message: "field " + fe.Field() + " failed " + fe.Tag() + " validation",
				})
			}
			writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid member payload", items...)
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid member payload")
		return
	}

	created, err := h.members.Create(ctx, input)
	if err != nil {
		writeUsecaseError(ctx, w, h.logger, err)
		return
	}

	writeData(w, http.StatusCreated, toMemberResponse(created))
}
