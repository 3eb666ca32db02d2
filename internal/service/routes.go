package service

import (
	"net/http"

	"connectrpc.com/connect"
)

// Procedure names for the BillService. Clients dial these paths directly.
const (
	ProcedureCreateBill        = "/billsplit.v1.BillService/CreateBill"
	ProcedureGetBill           = "/billsplit.v1.BillService/GetBill"
	ProcedureListBills         = "/billsplit.v1.BillService/ListBills"
	ProcedureArchiveBill       = "/billsplit.v1.BillService/ArchiveBill"
	ProcedureDeleteBill        = "/billsplit.v1.BillService/DeleteBill"
	ProcedureAddParticipant    = "/billsplit.v1.BillService/AddParticipant"
	ProcedureRemoveParticipant = "/billsplit.v1.BillService/RemoveParticipant"
	ProcedureAddExpense        = "/billsplit.v1.BillService/AddExpense"
	ProcedureUpdateExpense     = "/billsplit.v1.BillService/UpdateExpense"
	ProcedureDeleteExpense     = "/billsplit.v1.BillService/DeleteExpense"
	ProcedureMarkSplitPaid     = "/billsplit.v1.BillService/MarkSplitPaid"
	ProcedureResolveSplits     = "/billsplit.v1.BillService/ResolveSplits"
	ProcedureGetBalances       = "/billsplit.v1.BillService/GetBalances"
)

// NewBillServiceHandler builds the HTTP handler for all BillService
// procedures and returns the path prefix to mount it on. The JSONCodec is
// always installed; pass interceptors and other options through opts.
func NewBillServiceHandler(svc *BillService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ProcedureCreateBill, connect.NewUnaryHandler(ProcedureCreateBill, svc.CreateBill, opts...))
	mux.Handle(ProcedureGetBill, connect.NewUnaryHandler(ProcedureGetBill, svc.GetBill, opts...))
	mux.Handle(ProcedureListBills, connect.NewUnaryHandler(ProcedureListBills, svc.ListBills, opts...))
	mux.Handle(ProcedureArchiveBill, connect.NewUnaryHandler(ProcedureArchiveBill, svc.ArchiveBill, opts...))
	mux.Handle(ProcedureDeleteBill, connect.NewUnaryHandler(ProcedureDeleteBill, svc.DeleteBill, opts...))
	mux.Handle(ProcedureAddParticipant, connect.NewUnaryHandler(ProcedureAddParticipant, svc.AddParticipant, opts...))
	mux.Handle(ProcedureRemoveParticipant, connect.NewUnaryHandler(ProcedureRemoveParticipant, svc.RemoveParticipant, opts...))
	mux.Handle(ProcedureAddExpense, connect.NewUnaryHandler(ProcedureAddExpense, svc.AddExpense, opts...))
	mux.Handle(ProcedureUpdateExpense, connect.NewUnaryHandler(ProcedureUpdateExpense, svc.UpdateExpense, opts...))
	mux.Handle(ProcedureDeleteExpense, connect.NewUnaryHandler(ProcedureDeleteExpense, svc.DeleteExpense, opts...))
	mux.Handle(ProcedureMarkSplitPaid, connect.NewUnaryHandler(ProcedureMarkSplitPaid, svc.MarkSplitPaid, opts...))
	mux.Handle(ProcedureResolveSplits, connect.NewUnaryHandler(ProcedureResolveSplits, svc.ResolveSplits, opts...))
	mux.Handle(ProcedureGetBalances, connect.NewUnaryHandler(ProcedureGetBalances, svc.GetBalances, opts...))

	return "/billsplit.v1.BillService/", mux
}
