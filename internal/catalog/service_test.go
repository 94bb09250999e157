package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/quinworks/pricematch/internal/catalog"
)

func TestService_Import(t *testing.T) {
	params := []catalog.ImportParams{
		{Description: "Brickwork in cement mortar", Rate: decimal.RequireFromString("780.50"), Unit: "m3"},
		{Description: "Excavation for foundation", Rate: decimal.RequireFromString("410.00"), Unit: "m3", Category: "Earthwork"},
	}

	type args struct {
		params  []catalog.ImportParams
		replace bool
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *catalog.MockRepository)
		want      int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{params: params},
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().
					CreateItems(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, items []*catalog.Item) error {
						require.Len(t, items, 2)
						assert.Equal(t, "Brickwork in cement mortar", items[0].Description)
						assert.True(t, items[0].Rate.Equal(decimal.RequireFromString("780.50")))
						assert.Equal(t, "Earthwork", items[1].Category)
						return nil
					})
			},
			want: 2,
		},
		{
			name: "ReplaceClearsFirst",
			args: args{params: params, replace: true},
			setupMock: func(m *catalog.MockRepository) {
				gomock.InOrder(
					m.EXPECT().DeleteAllItems(gomock.Any()).Return(nil),
					m.EXPECT().CreateItems(gomock.Any(), gomock.Any()).Return(nil),
				)
			},
			want: 2,
		},
		{
			name:    "EmptyUpload",
			args:    args{params: nil},
			wantErr: true,
		},
		{
			name: "ClearFails",
			args: args{params: params, replace: true},
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().DeleteAllItems(gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
		{
			name: "CreateFails",
			args: args{params: params},
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().CreateItems(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := catalog.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := catalog.NewService(repo)
			got, err := svc.Import(context.Background(), tt.args.params, tt.args.replace)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Zero(t, got)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Records(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *catalog.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().
					ListItems(gomock.Any()).
					Return([]*catalog.Item{
						{ID: 1, Description: "Brickwork", Rate: decimal.RequireFromString("780.50"), Unit: "m3"},
						{ID: 2, Description: "Excavation", Rate: decimal.Zero},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name: "Empty",
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().ListItems(gomock.Any()).Return(nil, nil)
			},
			wantLen: 0,
		},
		{
			name: "RepoError",
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().ListItems(gomock.Any()).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := catalog.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := catalog.NewService(repo)
			got, err := svc.Records(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)

			if tt.wantLen > 0 {
				// Zero-rate rows pass through untouched; the matching
				// engine decides what is usable.
				assert.Equal(t, "Brickwork", got[0].Description)
				assert.Equal(t, "m3", got[0].Unit)
				assert.True(t, got[1].Rate.IsZero())
			}
		})
	}
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := catalog.NewMockRepository(ctrl)
	repo.EXPECT().
		ListItems(gomock.Any()).
		Return([]*catalog.Item{{ID: 1, Description: "Brickwork"}}, nil)

	svc := catalog.NewService(repo)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
}
