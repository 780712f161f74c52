package stylist_grpc_service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/catalog"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/session"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// SessionSystem is the part of session.Session the service exposes.
type SessionSystem interface {
	Add(g types.Garment) (*types.Selection, error)
	Remove(garmentID string) bool
	Clear()
	Generate() <-chan session.GenerateResult
	Next() session.Navigation
	Previous() session.Navigation
	GoTo(index int) session.Navigation
	Navigation() session.Navigation
	Status() session.Status
	Selections() []types.Selection
}

// StylistService is a gRPC service that exposes one outfit session.
type StylistService struct {
	system SessionSystem
}

var _ StylistServiceServer = (*StylistService)(nil)

// NewStylistService creates a new StylistService.
func NewStylistService(system SessionSystem) *StylistService {
	return &StylistService{system: system}
}

// Serve registers the service on a new server and serves lis until ctx is
// done.
func Serve(ctx context.Context, system SessionSystem, lis net.Listener) error {
	s := grpc.NewServer()
	RegisterStylistServiceServer(s, NewStylistService(system))

	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	return s.Serve(lis)
}

// ListenAndServe starts the gRPC server.
func ListenAndServe(ctx context.Context, system SessionSystem, listenAddress string) error {
	lis, err := net.Listen("tcp", listenAddress)
	if err != nil {
		return err
	}
	return Serve(ctx, system, lis)
}

// AddGarment selects the garment described by the request fields.
func (s *StylistService) AddGarment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	data, err := protojson.Marshal(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	g, err := catalog.ParseGarment(data)
	if err != nil {
		return nil, toStatus(err)
	}
	evicted, err := s.system.Add(g)
	if err != nil {
		return nil, toStatus(err)
	}
	return s.reply(map[string]any{"evicted": evicted})
}

// RemoveGarment deselects the garment named by "id".
func (s *StylistService) RemoveGarment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := req.GetFields()["id"].GetStringValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	return s.reply(map[string]any{"removed": s.system.Remove(id)})
}

// Clear empties the selection set.
func (s *StylistService) Clear(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	s.system.Clear()
	return s.reply(nil)
}

// Generate runs a generation and waits for its result.
func (s *StylistService) Generate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	select {
	case res := <-s.system.Generate():
		if res.Err != nil {
			return nil, toStatus(res.Err)
		}
		return s.reply(map[string]any{
			"skipped":      res.Skipped,
			"token":        res.Token,
			"combinations": res.Combinations,
		})
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	}
}

// Navigate moves the cursor. "op" is next, previous, goto (with "index") or
// current.
func (s *StylistService) Navigate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	var nav session.Navigation
	switch op := fields["op"].GetStringValue(); op {
	case "next":
		nav = s.system.Next()
	case "previous", "prev":
		nav = s.system.Previous()
	case "goto":
		index, ok := fields["index"]
		if !ok {
			return nil, status.Error(codes.InvalidArgument, "goto needs an index")
		}
		nav = s.system.GoTo(int(index.GetNumberValue()))
	case "", "current":
		nav = s.system.Navigation()
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown navigation op %q", op)
	}
	return s.reply(map[string]any{"navigation": nav})
}

// State returns the session status and the selected garments.
func (s *StylistService) State(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.reply(map[string]any{"selections": s.system.Selections()})
}

// reply adds the session status to fields and converts the result.
func (s *StylistService) reply(fields map[string]any) (*structpb.Struct, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	st := s.system.Status()
	fields["status"] = st
	if st.LastError != nil {
		fields["last_error"] = st.LastError.Error()
	}
	out, err := toStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// toStruct converts v through its JSON form so the json tags of the domain
// types define the wire field names.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("response is not an object: %w", err)
	}
	return structpb.NewStruct(m)
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, types.ErrUnknownCategory), errors.Is(err, types.ErrInvalidConfiguration):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, types.ErrGarmentNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, types.ErrSessionStopped):
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
