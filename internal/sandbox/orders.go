package sandbox

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/marshallshelly/stockroom/pkg/inventory"
)

const msgOrderLocked = "Only pending orders can be modified."

// orderView fills the denormalized fields. Must be called with s.mu held.
func (s *Server) orderView(o *order) inventory.Order {
	out := o.Order
	out.ProductName, out.ProductCategoryName = "", ""
	if p, ok := s.products[o.Product]; ok {
		out.ProductName = p.Name
		if c, ok := s.categories[p.Category]; ok {
			out.ProductCategoryName = c.Name
		}
	}
	return out
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	uid := owner(r)
	var categoryID int64
	if v := r.URL.Query().Get("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid category.")
			return
		}
		categoryID = id
	}

	s.mu.Lock()
	out := []inventory.Order{}
	for _, o := range s.orders {
		if o.owner != uid {
			continue
		}
		if categoryID != 0 {
			p, ok := s.products[o.Product]
			if !ok || p.Category != categoryID {
				continue
			}
		}
		out = append(out, s.orderView(o))
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

type orderRequest struct {
	Product  *int64  `json:"product"`
	Quantity *int    `json:"quantity"`
	Status   *string `json:"status"`
}

// checkOrder validates the product and quantity of in. Must be called with
// s.mu held.
func (s *Server) checkOrder(uid int64, in orderRequest) (*product, fieldErrors) {
	errs := fieldErrors{}
	var p *product

	if in.Product == nil {
		errs.add("product", "This field is required.")
	} else if found, ok := s.products[*in.Product]; !ok || found.owner != uid {
		errs.add("product", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *in.Product))
	} else {
		p = found
	}
	if in.Quantity == nil {
		errs.add("quantity", "This field is required.")
	} else if *in.Quantity < 1 {
		errs.add("quantity", "Ensure this value is greater than or equal to 1.")
	}
	if in.Status != nil {
		if _, err := inventory.ParseStatus(*in.Status); err != nil {
			errs.add("status", fmt.Sprintf("%q is not a valid choice.", *in.Status))
		}
	}
	return p, errs
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var in orderRequest
	if !decode(w, r, &in) {
		return
	}
	uid := owner(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, errs := s.checkOrder(uid, in)
	if errs.write(w) {
		return
	}
	if in.Status != nil {
		if st, _ := inventory.ParseStatus(*in.Status); st != inventory.StatusPending {
			fieldErrors{"status": {"New orders must be Pending."}}.write(w)
			return
		}
	}
	if *in.Quantity > p.Quantity {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Insufficient stock. Available: %d", p.Quantity))
		return
	}

	o := &order{
		Order: inventory.Order{
			ID:       s.nextID(),
			Product:  p.ID,
			Quantity: *in.Quantity,
			Status:   inventory.StatusPending,
		},
		owner: uid,
	}
	s.orders[o.ID] = o
	p.Quantity -= o.Quantity
	s.record(uid, p.ID, -o.Quantity)

	writeJSON(w, http.StatusCreated, s.orderView(o))
}

// ownedOrder must be called with s.mu held.
func (s *Server) ownedOrder(r *http.Request) (*order, bool) {
	id, ok := pathID(r)
	if !ok {
		return nil, false
	}
	o, found := s.orders[id]
	if !found || o.owner != owner(r) {
		return nil, false
	}
	return o, true
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.ownedOrder(r)
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, s.orderView(o))
}

func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	var in orderRequest
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.ownedOrder(r)
	if !ok {
		notFound(w)
		return
	}
	if !o.Modifiable() {
		writeError(w, http.StatusBadRequest, msgOrderLocked)
		return
	}

	p, errs := s.checkOrder(o.owner, in)
	if errs.write(w) {
		return
	}
	status := o.Status
	if in.Status != nil {
		to, _ := inventory.ParseStatus(*in.Status)
		if to != status {
			if err := inventory.ValidateTransition(status, to); err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("Cannot change status from %s to %s.", status, to))
				return
			}
			status = to
		}
	}

	// Put the old quantity back before checking the new one
	available := p.Quantity
	if p.ID == o.Product {
		available += o.Quantity
	}
	if *in.Quantity > available {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Insufficient stock. Available: %d", available))
		return
	}

	if old, ok := s.products[o.Product]; ok {
		old.Quantity += o.Quantity
		s.record(o.owner, old.ID, o.Quantity)
	}
	p.Quantity -= *in.Quantity
	s.record(o.owner, p.ID, -*in.Quantity)

	o.Product = p.ID
	o.Quantity = *in.Quantity
	o.Status = status

	writeJSON(w, http.StatusOK, s.orderView(o))
}

func (s *Server) patchOrder(w http.ResponseWriter, r *http.Request) {
	var in orderRequest
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.ownedOrder(r)
	if !ok {
		notFound(w)
		return
	}
	if !o.Modifiable() {
		writeError(w, http.StatusBadRequest, msgOrderLocked)
		return
	}
	if in.Status == nil {
		fieldErrors{"status": {"This field is required."}}.write(w)
		return
	}
	to, err := inventory.ParseStatus(*in.Status)
	if err != nil {
		fieldErrors{"status": {fmt.Sprintf("%q is not a valid choice.", *in.Status)}}.write(w)
		return
	}
	if err := inventory.ValidateTransition(o.Status, to); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Cannot change status from %s to %s.", o.Status, to))
		return
	}

	o.Status = to
	writeJSON(w, http.StatusOK, s.orderView(o))
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.ownedOrder(r)
	if !ok {
		notFound(w)
		return
	}
	if !o.Modifiable() {
		writeError(w, http.StatusBadRequest, msgOrderLocked)
		return
	}

	delete(s.orders, o.ID)
	if p, ok := s.products[o.Product]; ok {
		p.Quantity += o.Quantity
		s.record(o.owner, p.ID, o.Quantity)
	}
	w.WriteHeader(http.StatusNoContent)
}
