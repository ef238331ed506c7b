package voucher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	created []Input
	byCode  map[string]Voucher
}

func (f *fakeRepo) FindByCode(_ context.Context, code string) (Voucher, error) {
	v, ok := f.byCode[NormalizeCode(code)]
	if !ok {
		return Voucher{}, ErrNotFound
	}
	return v, nil
}

func (f *fakeRepo) Create(_ context.Context, in Input) (Voucher, error) {
	f.created = append(f.created, in)
	return Voucher{ID: "v-1", Code: NormalizeCode(in.Code), Kind: in.Kind, Value: in.Value}, nil
}

func (f *fakeRepo) Update(_ context.Context, code string, in Input) (Voucher, error) {
	if _, ok := f.byCode[NormalizeCode(code)]; !ok {
		return Voucher{}, ErrNotFound
	}
	return Voucher{Code: NormalizeCode(code), Kind: in.Kind, Value: in.Value}, nil
}

func (f *fakeRepo) Delete(_ context.Context, code string) error {
	if _, ok := f.byCode[NormalizeCode(code)]; !ok {
		return ErrNotFound
	}
	return nil
}

func (f *fakeRepo) List(context.Context, int, int) ([]Voucher, error) { return nil, nil }

func newHandler(repo Repo) *Handler {
	return &Handler{Store: repo, Validate: validator.New()}
}

func TestCreateVoucher(t *testing.T) {
	repo := &fakeRepo{}
	h := newHandler(repo)

	body := `{"code":"GIAM10","kind":"percentage","value":10,"maxDiscount":15000,"minOrderValue":50000}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/admin/vouchers", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, repo.created, 1)
	require.Equal(t, "percentage", repo.created[0].Kind)
}

func TestCreateVoucherRejectsBadKind(t *testing.T) {
	h := newHandler(&fakeRepo{})
	body := `{"code":"GIAM10","kind":"bogus","value":10}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/admin/vouchers", strings.NewReader(body)))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCreateVoucherRejectsPercentageOver100(t *testing.T) {
	h := newHandler(&fakeRepo{})
	body := `{"code":"GIAM200","kind":"percentage","value":200}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/admin/vouchers", strings.NewReader(body)))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestVoucherRuleConversion(t *testing.T) {
	cap := int64(20000)
	v := Voucher{Code: "FREESHIP", Kind: "fixed", Value: 14000, MaxDiscount: &cap, MinOrderValue: 100000}
	rule := v.Rule()
	require.Equal(t, "FREESHIP", rule.Code)
	require.Equal(t, int64(14000), rule.Value)
	require.NotNil(t, rule.MaxDiscount)
	require.Equal(t, int64(20000), *rule.MaxDiscount)
}
